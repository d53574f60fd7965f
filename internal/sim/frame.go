package sim

import (
	"github.com/san-kum/nozzleflow/internal/flow"
	"github.com/san-kum/nozzleflow/internal/geometry"
	"github.com/san-kum/nozzleflow/internal/shock"
)

// Frame is a per-tick snapshot handed to the rendering layer. The
// renderer is a pure consumer; nothing in the frame aliases engine
// state.
type Frame struct {
	Width, Height float64
	Params        flow.Params

	TopWall    []geometry.ControlPoint
	BottomWall []geometry.ControlPoint

	Stations  []Station
	Particles []ParticleView
	Markers   []MarkerView
}

// Station annotates one control point pair with its rolling average
// velocity readout.
type Station struct {
	X           float64
	TopY        float64
	BottomY     float64
	AvgVelocity float64
}

// ParticleView is a live tracer ready to draw.
type ParticleView struct {
	X, Y       float64
	Vel        float64
	Size       float64
	Opacity    float64
	Supersonic bool
}

// MarkerView is an active shock marker with the wall heights needed to
// draw a vertical segment across the duct.
type MarkerView struct {
	X       float64
	TopY    float64
	BottomY float64
	Opacity float64
	Dir     shock.Direction
}
