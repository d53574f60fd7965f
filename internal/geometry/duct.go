package geometry

import (
	"fmt"
	"math"
)

// WallSide selects one of the two duct walls.
type WallSide int

const (
	TopWall WallSide = iota
	BottomWall
)

// Duct pairs two wall profiles mirrored about a horizontal centerline.
// Dragging a point on either wall moves the same-indexed point on the
// opposite wall to the mirrored position, so the duct stays vertically
// symmetric.
type Duct struct {
	Top     *Wall
	Bottom  *Wall
	CenterY float64
	Length  float64
}

// NewDuct lays out a duct of the given screen extent with n control
// points per wall following the named profile.
func NewDuct(width, height float64, n int, profile string) (*Duct, error) {
	bottom, err := Layout(profile, width, height, n)
	if err != nil {
		return nil, err
	}
	d := &Duct{
		CenterY: height / 2,
		Length:  width,
	}
	top := make([]ControlPoint, len(bottom))
	for i, p := range bottom {
		top[i] = ControlPoint{X: p.X, Y: 2*d.CenterY - p.Y}
	}
	d.Top = NewWall(top)
	d.Bottom = NewWall(bottom)
	return d, nil
}

// Resize rebuilds both walls with a fresh default layout for the new
// extent, discarding drag state and velocity buffers.
func (d *Duct) Resize(width, height float64, profile string) error {
	nd, err := NewDuct(width, height, d.Bottom.NumPoints(), profile)
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}

// MovePoint applies a drag to one wall and mirrors it onto the other.
func (d *Duct) MovePoint(side WallSide, i int, x, y float64) {
	dragged, other := d.Bottom, d.Top
	if side == TopWall {
		dragged, other = d.Top, d.Bottom
	}
	dragged.MovePoint(i, x, y)
	// Mirror from the clamped position, not the requested one.
	pts := dragged.Points()
	if i >= 0 && i < len(pts) {
		other.MovePoint(i, pts[i].X, 2*d.CenterY-pts[i].Y)
	}
}

// HeightsAt returns the lateral coordinates of both walls at x.
func (d *Duct) HeightsAt(x float64) (top, bottom float64) {
	return d.Top.HeightAt(x), d.Bottom.HeightAt(x)
}

// Area treats the bottom wall's offset from the centerline as a disc
// radius. Both walls share this value: the duct is a body of revolution
// around the centerline, and the bottom wall defines it.
func (d *Duct) Area(x float64) float64 {
	r := d.Bottom.HeightAt(x) - d.CenterY
	return math.Pi * r * r
}

// SampleWall returns n evenly spaced points along one wall for drawing.
func (d *Duct) SampleWall(side WallSide, n int) []ControlPoint {
	w := d.Bottom
	if side == TopWall {
		w = d.Top
	}
	if n < 2 {
		n = 2
	}
	out := make([]ControlPoint, n)
	for i := range out {
		x := d.Length * float64(i) / float64(n-1)
		out[i] = ControlPoint{X: x, Y: w.HeightAt(x)}
	}
	return out
}

// Layout returns the bottom-wall control points for a named duct
// profile. The top wall is always the mirror image.
func Layout(profile string, width, height float64, n int) ([]ControlPoint, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 control points, got %d", n)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid duct extent %gx%g", width, height)
	}

	center := height / 2
	wide := height * 0.40 // half-gap at the widest stations
	tight := height * 0.22

	pts := make([]ControlPoint, n)
	for i := range pts {
		f := float64(i) / float64(n-1) // 0 at inlet, 1 at outlet
		x := width * f

		var r float64
		switch profile {
		case "straight":
			r = wide * 0.75
		case "converging":
			r = wide - (wide-tight)*f
		case "diverging":
			r = tight + (wide-tight)*f
		case "laval", "":
			// Converging-diverging: pinched throat just ahead of center.
			throat := 0.45
			dist := math.Abs(f-throat) / math.Max(throat, 1-throat)
			r = tight + (wide-tight)*dist
		default:
			return nil, fmt.Errorf("unknown duct profile %q", profile)
		}
		pts[i] = ControlPoint{X: x, Y: center + r}
	}
	return pts, nil
}

// Profiles lists the named duct layouts accepted by Layout.
func Profiles() []string {
	return []string{"laval", "straight", "converging", "diverging"}
}
