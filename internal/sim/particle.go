package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/nozzleflow/internal/flow"
	"github.com/san-kum/nozzleflow/internal/geometry"
	"github.com/san-kum/nozzleflow/internal/shock"
)

const (
	// PixelsPerMeter converts physical lengths to screen units.
	PixelsPerMeter = 100.0
	// LookAhead is the downstream sampling distance (10 cm) used to
	// difference the duct area.
	LookAhead = 0.1 * PixelsPerMeter
)

// Particle is a single flow tracer. Lat is its fractional position
// between the two walls, fixed at spawn; the lateral screen position is
// derived from the wall heights every tick, never stored.
type Particle struct {
	X          float64 // downstream, screen units
	Lat        float64 // normalized [0,1]
	Vel        float64 // m/s
	Size       float64
	Opacity    float64
	Supersonic bool
}

func spawnParticle(rng *rand.Rand, p flow.Params) Particle {
	return Particle{
		X:       0,
		Lat:     rng.Float64(),
		Vel:     p.InjectionVelocity,
		Size:    1 + rng.Float64()*2,
		Opacity: 0.4 + rng.Float64()*0.6,
	}
}

// Y derives the particle's lateral screen position from the wall
// heights at its current downstream station.
func (p *Particle) Y(d *geometry.Duct) float64 {
	top, bottom := d.HeightsAt(p.X)
	return top + p.Lat*(bottom-top)
}

// Step advances the particle one tick: update velocity from the local
// area gradient, report a shock event if the Mach regime flipped, then
// advect downstream. Returns true when a transition was reported.
func (p *Particle) Step(d *geometry.Duct, tr *shock.Tracker, params flow.Params, dt float64, now time.Time) bool {
	areaHere := d.Area(p.X)
	areaAhead := d.Area(p.X + LookAhead)

	prevMach := params.Mach(p.Vel)
	p.Vel = flow.NextVelocity(areaHere, areaAhead, p.Vel, params)
	newMach := params.Mach(p.Vel)

	transitioned := (prevMach < 1) != (newMach < 1)
	if transitioned {
		dir := shock.SupersonicEntry
		if newMach < 1 {
			dir = shock.SubsonicEntry
		}
		tr.Report(p.X, dir, now)
	}

	d.Bottom.RecordVelocity(p.X, p.Vel)

	p.X += p.Vel * dt * params.TimeScale * PixelsPerMeter
	p.Supersonic = newMach >= 1
	return transitioned
}

// Alive reports whether the particle is still inside the duct and
// moving faster than the stall threshold.
func (p *Particle) Alive(d *geometry.Duct) bool {
	return p.X <= d.Length && math.Abs(p.Vel) >= flow.MinVelocity
}
