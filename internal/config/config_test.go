package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Profile != "laval" {
		t.Errorf("expected profile laval, got %s", cfg.Profile)
	}
	if cfg.SoundSpeed <= 0 {
		t.Error("sound speed should be positive")
	}
	if cfg.ControlPoints < 2 {
		t.Error("need at least 2 control points")
	}
}

func TestFlowParamsPercentConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeScalePercent = 2.5

	p := cfg.FlowParams()
	if p.TimeScale != 0.025 {
		t.Errorf("expected decimal multiplier 0.025, got %g", p.TimeScale)
	}
	if p.SoundSpeed != cfg.SoundSpeed {
		t.Errorf("sound speed not carried: %g", p.SoundSpeed)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("straight")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Profile != "straight" {
		t.Errorf("expected straight profile, got %s", cfg.Profile)
	}
	// Presets inherit defaults for fields they do not set.
	if cfg.Width != DefaultWidth {
		t.Errorf("preset lost default width: %g", cfg.Width)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("warpdrive"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) == 0 {
		t.Error("expected presets")
	}
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nozzle.yaml")

	cfg := DefaultConfig()
	cfg.SoundSpeed = 300
	cfg.InjectionVelocity = 250
	cfg.Profile = "diverging"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.SoundSpeed != 300 || loaded.InjectionVelocity != 250 {
		t.Errorf("values lost in roundtrip: %+v", loaded)
	}
	if loaded.Profile != "diverging" {
		t.Errorf("profile lost: %s", loaded.Profile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/nozzle.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	sc := cfg.SimConfig()

	if sc.Width != cfg.Width || sc.Height != cfg.Height {
		t.Error("extent not carried into sim config")
	}
	if sc.Params.TimeScale != cfg.TimeScalePercent/100 {
		t.Error("time scale not converted")
	}
}
