package storage

import (
	"math"
	"testing"

	"github.com/san-kum/nozzleflow/internal/config"
	"github.com/san-kum/nozzleflow/internal/sim"
)

func testRun() (*config.Config, *sim.Result, sim.Frame) {
	cfg := config.DefaultConfig()
	cfg.Profile = "laval"
	cfg.Seed = 7

	result := &sim.Result{
		Steps:    120,
		Spawned:  60,
		Exited:   40,
		Stalled:  2,
		Duration: 2.0,
		Metrics: map[string]float64{
			"mean_exit_velocity": 180.5,
			"max_mach":           1.2,
			"shock_events":       3,
		},
	}

	frame := sim.Frame{
		Width:  800,
		Height: 400,
		Stations: []sim.Station{
			{X: 0, TopY: 120, BottomY: 280, AvgVelocity: 100},
			{X: 400, TopY: 160, BottomY: 240, AvgVelocity: 250},
			{X: 800, TopY: 130, BottomY: 270, AvgVelocity: 190},
		},
	}
	return cfg, result, frame
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result, frame := testRun()
	runID, err := st.Save(cfg, result, frame)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Profile != "laval" || meta.Spawned != 60 || meta.Exited != 40 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["max_mach"] != 1.2 {
		t.Errorf("metrics lost: %v", meta.Metrics)
	}
	if meta.Seed != 7 {
		t.Errorf("seed lost: %d", meta.Seed)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result, frame := testRun()
	if _, err := st.Save(cfg, result, frame); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Profile != "laval" {
		t.Errorf("unexpected profile: %s", runs[0].Profile)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New("/nonexistent/nozzleflow-runs")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("expected empty list, got error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadProfile(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result, frame := testRun()
	runID, err := st.Save(cfg, result, frame)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cols, err := st.LoadProfile(runID)
	if err != nil {
		t.Fatalf("load profile failed: %v", err)
	}
	if len(cols) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(cols))
	}
	if cols[0].Name != "x" || cols[4].Name != "avg_velocity" {
		t.Errorf("unexpected column names: %s, %s", cols[0].Name, cols[4].Name)
	}
	for _, c := range cols {
		if len(c.Values) != len(frame.Stations) {
			t.Errorf("column %s has %d values, want %d", c.Name, len(c.Values), len(frame.Stations))
		}
	}

	// Area is derived from the bottom wall's radius about the centerline.
	var area []float64
	for _, c := range cols {
		if c.Name == "area" {
			area = c.Values
		}
	}
	r := frame.Stations[1].BottomY - frame.Height/2
	want := math.Pi * r * r
	if math.Abs(area[1]-want) > 0.01 {
		t.Errorf("throat area mismatch: got %g, want %g", area[1], want)
	}
}

func TestStoreLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("no-such-run"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadProfile("no-such-run"); err == nil {
		t.Error("expected error for missing profile")
	}
}
