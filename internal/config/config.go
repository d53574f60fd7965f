package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nozzleflow/internal/flow"
	"github.com/san-kum/nozzleflow/internal/sim"
)

const (
	DefaultSoundSpeed        = 343.0
	DefaultInjectionVelocity = 100.0
	DefaultTimeScalePercent  = 1.0
	DefaultControlPoints     = 7
	DefaultWidth             = 800.0
	DefaultHeight            = 400.0
	DefaultDuration          = 10.0
	DefaultThreshold         = 1
)

type Config struct {
	Profile           string  `yaml:"profile"`
	SoundSpeed        float64 `yaml:"sound_speed"`
	InjectionVelocity float64 `yaml:"injection_velocity"`
	TimeScalePercent  float64 `yaml:"time_scale_percent"`
	ControlPoints     int     `yaml:"control_points"`
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	Duration          float64 `yaml:"duration"`
	SpawnRate         float64 `yaml:"spawn_rate"`
	ShockThreshold    int     `yaml:"shock_threshold"`
	Seed              int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Profile:           "laval",
		SoundSpeed:        DefaultSoundSpeed,
		InjectionVelocity: DefaultInjectionVelocity,
		TimeScalePercent:  DefaultTimeScalePercent,
		ControlPoints:     DefaultControlPoints,
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		Duration:          DefaultDuration,
		SpawnRate:         sim.DefaultSpawnRate,
		ShockThreshold:    DefaultThreshold,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FlowParams converts the UI-facing scalars into the explicit parameter
// record passed to every flow update. The time scale is entered as a
// percentage and used as a decimal multiplier.
func (c *Config) FlowParams() flow.Params {
	return flow.Params{
		SoundSpeed:        c.SoundSpeed,
		InjectionVelocity: c.InjectionVelocity,
		TimeScale:         c.TimeScalePercent / 100,
	}
}

// SimConfig assembles the engine config from the loaded values.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Width:         c.Width,
		Height:        c.Height,
		ControlPoints: c.ControlPoints,
		Profile:       c.Profile,
		Params:        c.FlowParams(),
		SpawnRate:     c.SpawnRate,
		Threshold:     c.ShockThreshold,
		Seed:          c.Seed,
	}
}
