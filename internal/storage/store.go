package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/nozzleflow/internal/config"
	"github.com/san-kum/nozzleflow/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                string             `json:"id"`
	Profile           string             `json:"profile"`
	Timestamp         time.Time          `json:"timestamp"`
	Seed              int64              `json:"seed"`
	Duration          float64            `json:"duration"`
	SoundSpeed        float64            `json:"sound_speed"`
	InjectionVelocity float64            `json:"injection_velocity"`
	TimeScalePercent  float64            `json:"time_scale_percent"`
	Spawned           int                `json:"spawned"`
	Exited            int                `json:"exited"`
	Stalled           int                `json:"stalled"`
	Metrics           map[string]float64 `json:"metrics"`
}

// Save persists run metadata plus the final duct profile: one CSV row
// per control-point station with geometry, area and the rolling average
// velocity readout.
func (s *Store) Save(cfg *config.Config, result *sim.Result, frame sim.Frame) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Profile, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                runID,
		Profile:           cfg.Profile,
		Timestamp:         time.Now(),
		Seed:              cfg.Seed,
		Duration:          result.Duration,
		SoundSpeed:        cfg.SoundSpeed,
		InjectionVelocity: cfg.InjectionVelocity,
		TimeScalePercent:  cfg.TimeScalePercent,
		Spawned:           result.Spawned,
		Exited:            result.Exited,
		Stalled:           result.Stalled,
		Metrics:           result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "profile.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"x", "top_y", "bottom_y", "area", "avg_velocity"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	center := frame.Height / 2
	for _, st := range frame.Stations {
		r := st.BottomY - center
		area := math.Pi * r * r
		row := []string{
			strconv.FormatFloat(st.X, 'f', 4, 64),
			strconv.FormatFloat(st.TopY, 'f', 4, 64),
			strconv.FormatFloat(st.BottomY, 'f', 4, 64),
			strconv.FormatFloat(area, 'f', 4, 64),
			strconv.FormatFloat(st.AvgVelocity, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ProfileColumn holds one named column of a stored profile CSV.
type ProfileColumn struct {
	Name   string
	Values []float64
}

// LoadProfile reads the per-station columns of a stored run.
func (s *Store) LoadProfile(runID string) ([]ProfileColumn, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "profile.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("profile for run %s is empty", runID)
	}

	cols := make([]ProfileColumn, len(records[0]))
	for i, name := range records[0] {
		cols[i] = ProfileColumn{Name: name}
	}
	for _, record := range records[1:] {
		for i := range cols {
			if i >= len(record) {
				continue
			}
			val, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				continue
			}
			cols[i].Values = append(cols[i].Values, val)
		}
	}
	return cols, nil
}
