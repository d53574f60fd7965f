package geometry

import (
	"fmt"
	"sort"
)

// Spline is a natural cubic spline over strictly increasing knots. The
// second derivative is zero at both ends, so the curve stays tame near
// the duct inlet and outlet.
type Spline struct {
	xs, ys []float64
	y2s    []float64
}

// NewSpline fits a natural cubic spline through the given knots. The xs
// must be strictly increasing and len(xs) == len(ys) >= 2.
func NewSpline(xs, ys []float64) (*Spline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("knot count mismatch: %d xs, %d ys", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("need at least 2 knots, got %d", len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("knots not strictly increasing at index %d", i)
		}
	}

	sp := &Spline{
		xs:  make([]float64, len(xs)),
		ys:  make([]float64, len(ys)),
		y2s: make([]float64, len(xs)),
	}
	copy(sp.xs, xs)
	copy(sp.ys, ys)
	sp.solveSecondDerivatives()
	return sp, nil
}

// solveSecondDerivatives fills y2s via a tridiagonal (Thomas) solve with
// natural boundary conditions y2[0] = y2[n-1] = 0.
func (sp *Spline) solveSecondDerivatives() {
	n := len(sp.xs)
	if n == 2 {
		return // already zero: a straight segment
	}

	xs, ys := sp.xs, sp.ys
	m := n - 2
	diag := make([]float64, m)
	upper := make([]float64, m)
	rhs := make([]float64, m)

	for i := 0; i < m; i++ {
		j := i + 1
		hl := xs[j] - xs[j-1]
		hr := xs[j+1] - xs[j]
		diag[i] = (xs[j+1] - xs[j-1]) / 3
		upper[i] = hr / 6
		rhs[i] = (ys[j+1]-ys[j])/hr - (ys[j]-ys[j-1])/hl
	}

	// Forward elimination; the lower band equals the previous upper band.
	for i := 1; i < m; i++ {
		lower := (xs[i+1] - xs[i]) / 6
		f := lower / diag[i-1]
		diag[i] -= f * upper[i-1]
		rhs[i] -= f * rhs[i-1]
	}

	sp.y2s[m] = rhs[m-1] / diag[m-1]
	for i := m - 2; i >= 0; i-- {
		sp.y2s[i+1] = (rhs[i] - upper[i]*sp.y2s[i+2]) / diag[i]
	}
}

// Eval returns the spline value at x. Positions outside the knot span
// return the boundary knot's value; the curve is clamped, never
// extrapolated.
func (sp *Spline) Eval(x float64) float64 {
	n := len(sp.xs)
	if x <= sp.xs[0] {
		return sp.ys[0]
	}
	if x >= sp.xs[n-1] {
		return sp.ys[n-1]
	}

	i := sort.SearchFloat64s(sp.xs, x) - 1
	if i < 0 {
		i = 0
	}

	h := sp.xs[i+1] - sp.xs[i]
	a := (sp.xs[i+1] - x) / h
	b := 1 - a
	return a*sp.ys[i] + b*sp.ys[i+1] +
		((a*a*a-a)*sp.y2s[i]+(b*b*b-b)*sp.y2s[i+1])*h*h/6
}

// Span returns the downstream extent covered by the knots.
func (sp *Spline) Span() (lo, hi float64) {
	return sp.xs[0], sp.xs[len(sp.xs)-1]
}
