package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/nozzleflow/internal/flow"
	"github.com/san-kum/nozzleflow/internal/geometry"
	"github.com/san-kum/nozzleflow/internal/shock"
)

const (
	// DefaultSpawnRate is particles per scaled second of flow time.
	DefaultSpawnRate = 300.0
	// wallSamples is the polyline resolution handed to renderers.
	wallSamples = 120
)

// Config describes one simulation setup.
type Config struct {
	Width         float64
	Height        float64
	ControlPoints int
	Profile       string
	Params        flow.Params
	SpawnRate     float64
	Threshold     int
	Seed          int64
}

// Result summarizes a headless run.
type Result struct {
	Steps    int
	Spawned  int
	Exited   int
	Stalled  int
	Duration float64
	Metrics  map[string]float64
}

// Engine owns the duct, the tracer particles and the shock tracker, and
// advances them one tick at a time. Execution is single-threaded and
// cooperative: drag events queued by the interaction layer are drained
// at the top of each tick, so every tick sees a consistent geometry
// snapshot.
type Engine struct {
	cfg     Config
	duct    *geometry.Duct
	tracker *shock.Tracker

	particles  []Particle
	rng        *rand.Rand
	spawnAccum float64

	drags    []dragEvent
	lastTick time.Time

	steps       int
	spawned     int
	exited      int
	stalled     int
	shockEvents int
	maxMach     float64
	exitVelSum  float64
}

type dragEvent struct {
	side  geometry.WallSide
	index int
	x, y  float64
}

// New validates the config and builds an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("duct extent must be positive, got %gx%g", cfg.Width, cfg.Height)
	}
	if cfg.ControlPoints < 2 {
		return nil, fmt.Errorf("need at least 2 control points, got %d", cfg.ControlPoints)
	}
	if cfg.Params.SoundSpeed <= 0 {
		return nil, fmt.Errorf("sound speed must be positive, got %g", cfg.Params.SoundSpeed)
	}
	if cfg.Params.TimeScale <= 0 {
		return nil, fmt.Errorf("time scale must be positive, got %g", cfg.Params.TimeScale)
	}
	if cfg.SpawnRate <= 0 {
		cfg.SpawnRate = DefaultSpawnRate
	}

	duct, err := geometry.NewDuct(cfg.Width, cfg.Height, cfg.ControlPoints, cfg.Profile)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		cfg:       cfg,
		duct:      duct,
		tracker:   shock.NewTracker(shock.DefaultGrouping, shock.DefaultLifetime, cfg.Threshold),
		particles: make([]Particle, 0, 256),
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// Duct exposes the geometry for the interaction layer.
func (e *Engine) Duct() *geometry.Duct { return e.duct }

// Params returns the current flow parameters.
func (e *Engine) Params() flow.Params { return e.cfg.Params }

// SetParams replaces the flow parameters. Takes effect from the next
// tick; particles already in flight pick it up on their next update.
func (e *Engine) SetParams(p flow.Params) { e.cfg.Params = p }

// QueueDrag records a control-point drag to be applied, with the mirror
// rule, at the start of the next tick.
func (e *Engine) QueueDrag(side geometry.WallSide, index int, x, y float64) {
	e.drags = append(e.drags, dragEvent{side: side, index: index, x: x, y: y})
}

// Resize rebuilds the duct with a fresh default layout and clears the
// in-flight tracers; a resized duct starts from a clean slate.
func (e *Engine) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("duct extent must be positive, got %gx%g", width, height)
	}
	if err := e.duct.Resize(width, height, e.cfg.Profile); err != nil {
		return err
	}
	e.cfg.Width, e.cfg.Height = width, height
	e.particles = e.particles[:0]
	e.drags = e.drags[:0]
	return nil
}

// Tick advances the simulation by dt seconds of wall-clock time. Order
// within a tick: apply drags, spawn, step particles, cull, prune shock
// buckets.
func (e *Engine) Tick(now time.Time, dt float64) {
	for _, d := range e.drags {
		e.duct.MovePoint(d.side, d.index, d.x, d.y)
	}
	e.drags = e.drags[:0]

	e.spawn(dt)

	alive := e.particles[:0]
	for i := range e.particles {
		p := &e.particles[i]
		if p.Step(e.duct, e.tracker, e.cfg.Params, dt, now) {
			e.shockEvents++
		}
		if m := math.Abs(e.cfg.Params.Mach(p.Vel)); m > e.maxMach {
			e.maxMach = m
		}
		if p.Alive(e.duct) {
			alive = append(alive, *p)
			continue
		}
		if p.X > e.duct.Length {
			e.exited++
			e.exitVelSum += p.Vel
		} else {
			e.stalled++
		}
	}
	e.particles = alive

	e.tracker.PruneExpired(now)
	e.lastTick = now
	e.steps++
}

// LastTick returns the timestamp of the most recent tick; headless
// callers use it to snapshot a frame consistent with the run's clock.
func (e *Engine) LastTick() time.Time { return e.lastTick }

func (e *Engine) spawn(dt float64) {
	e.spawnAccum += dt * e.cfg.Params.TimeScale * e.cfg.SpawnRate
	for e.spawnAccum >= 1 {
		e.spawnAccum--
		e.particles = append(e.particles, spawnParticle(e.rng, e.cfg.Params))
		e.spawned++
	}
}

// Frame snapshots everything the rendering layer needs for one draw.
func (e *Engine) Frame(now time.Time) Frame {
	f := Frame{
		Width:      e.cfg.Width,
		Height:     e.cfg.Height,
		Params:     e.cfg.Params,
		TopWall:    e.duct.SampleWall(geometry.TopWall, wallSamples),
		BottomWall: e.duct.SampleWall(geometry.BottomWall, wallSamples),
		Particles:  make([]ParticleView, 0, len(e.particles)),
	}

	for i, p := range e.duct.Bottom.Points() {
		top, bottom := e.duct.HeightsAt(p.X)
		f.Stations = append(f.Stations, Station{
			X:           p.X,
			TopY:        top,
			BottomY:     bottom,
			AvgVelocity: e.duct.Bottom.AverageVelocity(i),
		})
	}

	for i := range e.particles {
		p := &e.particles[i]
		f.Particles = append(f.Particles, ParticleView{
			X:          p.X,
			Y:          p.Y(e.duct),
			Vel:        p.Vel,
			Size:       p.Size,
			Opacity:    p.Opacity,
			Supersonic: p.Supersonic,
		})
	}

	for _, m := range e.tracker.ActiveMarkers(now) {
		top, bottom := e.duct.HeightsAt(m.Pos)
		f.Markers = append(f.Markers, MarkerView{
			X:       m.Pos,
			TopY:    top,
			BottomY: bottom,
			Opacity: m.Opacity,
			Dir:     m.Dir,
		})
	}
	return f
}

// Run drives the engine headlessly for duration seconds of wall time at
// a fixed dt, honoring context cancellation between ticks.
func (e *Engine) Run(ctx context.Context, duration, dt float64) (*Result, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %f", dt)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", duration)
	}

	now := time.Now()
	steps := int(duration / dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return e.result(duration), ctx.Err()
		default:
		}
		e.Tick(now, dt)
		now = now.Add(time.Duration(dt * float64(time.Second)))
	}
	return e.result(duration), nil
}

func (e *Engine) result(duration float64) *Result {
	meanExit := 0.0
	if e.exited > 0 {
		meanExit = e.exitVelSum / float64(e.exited)
	}
	return &Result{
		Steps:    e.steps,
		Spawned:  e.spawned,
		Exited:   e.exited,
		Stalled:  e.stalled,
		Duration: duration,
		Metrics: map[string]float64{
			"mean_exit_velocity": meanExit,
			"max_mach":           e.maxMach,
			"shock_events":       float64(e.shockEvents),
			"particles_alive":    float64(len(e.particles)),
		},
	}
}
