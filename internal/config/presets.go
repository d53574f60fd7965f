package config

var Presets = map[string]*Config{
	"laval": {
		Profile: "laval", SoundSpeed: 343, InjectionVelocity: 100,
		TimeScalePercent: 1.0, ControlPoints: 7, Duration: 10.0,
	},
	"laval-fast": {
		Profile: "laval", SoundSpeed: 343, InjectionVelocity: 320,
		TimeScalePercent: 2.0, ControlPoints: 7, Duration: 10.0,
	},
	"straight": {
		Profile: "straight", SoundSpeed: 343, InjectionVelocity: 100,
		TimeScalePercent: 1.0, ControlPoints: 5, Duration: 10.0,
	},
	"diffuser": {
		Profile: "diverging", SoundSpeed: 343, InjectionVelocity: 150,
		TimeScalePercent: 1.0, ControlPoints: 6, Duration: 10.0,
	},
	"venturi": {
		Profile: "converging", SoundSpeed: 343, InjectionVelocity: 80,
		TimeScalePercent: 1.5, ControlPoints: 6, Duration: 10.0,
	},
}

func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Profile = base.Profile
	cfg.SoundSpeed = base.SoundSpeed
	cfg.InjectionVelocity = base.InjectionVelocity
	cfg.TimeScalePercent = base.TimeScalePercent
	cfg.ControlPoints = base.ControlPoints
	cfg.Duration = base.Duration
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
