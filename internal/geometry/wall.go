package geometry

import (
	"math"
	"sort"
)

const (
	// VelocityBufferCap bounds the per-station rolling velocity buffer.
	VelocityBufferCap = 50
	// RecordRadius is how close a sample must be to a control point, in
	// length units, before it counts toward that station's average.
	RecordRadius = 50.0
	// minKnotGap keeps knots strictly ordered when a drag stacks two
	// control points on the same downstream position.
	minKnotGap = 1e-6
)

// ControlPoint is a draggable knot of a wall profile.
type ControlPoint struct {
	X float64 // downstream
	Y float64 // lateral
}

// Wall is one duct wall: an ordered set of control points interpolated by
// a natural cubic spline, plus a per-point rolling buffer of recently
// observed particle velocities (display only, not physics).
type Wall struct {
	points  []ControlPoint
	spline  *Spline // nil when stale
	velBufs [][]float64
}

// NewWall builds a wall from control points. Points are sorted ascending
// by downstream position; the interpolation is built lazily on first
// query.
func NewWall(points []ControlPoint) *Wall {
	w := &Wall{}
	w.SetPoints(points)
	return w
}

// SetPoints replaces all control points, re-sorts them, resets the
// velocity buffers and invalidates the cached interpolation.
func (w *Wall) SetPoints(points []ControlPoint) {
	w.points = make([]ControlPoint, len(points))
	copy(w.points, points)
	sortPoints(w.points)
	w.velBufs = make([][]float64, len(w.points))
	w.spline = nil
}

// MovePoint repositions one control point and invalidates the cached
// interpolation. The downstream coordinate is clamped between the
// point's neighbors so the knot order stays monotonic and the point
// keeps its index (the mirror rule pairs walls by index).
func (w *Wall) MovePoint(i int, x, y float64) {
	if i < 0 || i >= len(w.points) {
		return
	}
	if i > 0 && x < w.points[i-1].X+minKnotGap {
		x = w.points[i-1].X + minKnotGap
	}
	if i < len(w.points)-1 && x > w.points[i+1].X-minKnotGap {
		x = w.points[i+1].X - minKnotGap
	}
	w.points[i] = ControlPoint{X: x, Y: y}
	w.spline = nil
}

// Points returns a copy of the control points in downstream order.
func (w *Wall) Points() []ControlPoint {
	out := make([]ControlPoint, len(w.points))
	copy(out, w.points)
	return out
}

// HeightAt returns the interpolated lateral coordinate of the wall.
// Positions outside the control-point span return the boundary point's
// height.
func (w *Wall) HeightAt(x float64) float64 {
	if len(w.points) == 0 {
		return 0
	}
	if len(w.points) == 1 {
		return w.points[0].Y
	}
	if w.spline == nil {
		w.rebuild()
	}
	return w.spline.Eval(x)
}

// RecordVelocity attributes a velocity sample to the nearest control
// point, provided the sample is within RecordRadius of it. The buffer
// keeps only the newest VelocityBufferCap entries.
func (w *Wall) RecordVelocity(x, v float64) {
	i, dist := w.nearestPoint(x)
	if i < 0 || dist >= RecordRadius {
		return
	}
	buf := append(w.velBufs[i], v)
	if len(buf) > VelocityBufferCap {
		buf = buf[len(buf)-VelocityBufferCap:]
	}
	w.velBufs[i] = buf
}

// AverageVelocity returns the mean of the rolling buffer at station i,
// or 0 when the buffer is empty.
func (w *Wall) AverageVelocity(i int) float64 {
	if i < 0 || i >= len(w.velBufs) || len(w.velBufs[i]) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w.velBufs[i] {
		sum += v
	}
	return sum / float64(len(w.velBufs[i]))
}

// NumPoints returns the control point count.
func (w *Wall) NumPoints() int { return len(w.points) }

func (w *Wall) nearestPoint(x float64) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, p := range w.points {
		if d := math.Abs(p.X - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// rebuild refits the spline, nudging any duplicate downstream positions
// apart so the knots stay strictly increasing.
func (w *Wall) rebuild() {
	xs := make([]float64, len(w.points))
	ys := make([]float64, len(w.points))
	for i, p := range w.points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			xs[i] = xs[i-1] + minKnotGap
		}
	}
	sp, err := NewSpline(xs, ys)
	if err != nil {
		// Degenerate input is already clamped above; a flat wall at the
		// first point's height is the safe fallback.
		flat := ys[0]
		sp, _ = NewSpline([]float64{xs[0], xs[0] + 1}, []float64{flat, flat})
	}
	w.spline = sp
}

func sortPoints(points []ControlPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })
}
