// Package flow implements the linearized quasi-1D compressible flow
// relation used to advect tracer particles through the duct: a
// fractional area change drives a fractional velocity change through
// (M^2 - 1) dv/v = dA/A. It is a real-time visual approximation, not a
// conservative solver.
package flow

import "math"

const (
	// Damping scales each velocity increment so the explicit update
	// stays stable at interactive time steps. Tunable, not physical.
	Damping = 0.05

	// SonicBand is the width of |1 - M^2| around Mach 1 inside which the
	// governing relation is singular and the update is bypassed.
	SonicBand = 0.01

	// MinVelocity is the magnitude below which a tracer counts as
	// stalled and is removed.
	MinVelocity = 0.001
)

// Params carries the externally tunable flow quantities. A copy is
// passed into every update call so the single-threaded UI layer can
// mutate its own copy between ticks without synchronization.
type Params struct {
	SoundSpeed        float64 // m/s
	InjectionVelocity float64 // m/s, spawn velocity and near-sonic reset
	TimeScale         float64 // decimal multiplier on advection and spawn cadence
}

// Mach returns v expressed as a Mach number under p.
func (p Params) Mach(v float64) float64 {
	if p.SoundSpeed == 0 {
		return 0
	}
	return v / p.SoundSpeed
}

// NextVelocity advances a velocity across one sampling interval of the
// duct, from a station with cross-section areaUp to one with areaDown.
//
// Near Mach 1 the denominator of the relation vanishes; instead of
// letting the update blow up, the velocity is reset to the injection
// velocity. A zero upstream area carries no usable ratio and leaves the
// velocity unchanged.
func NextVelocity(areaUp, areaDown, v float64, p Params) float64 {
	m := p.Mach(v)
	den := 1 - m*m
	if math.Abs(den) < SonicBand {
		return p.InjectionVelocity
	}
	if areaUp == 0 {
		return v
	}
	dAA := (areaDown - areaUp) / areaUp
	dv := -dAA * v / den
	return v + dv*Damping
}
