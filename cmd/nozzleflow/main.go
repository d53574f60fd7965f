package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/nozzleflow/internal/config"
	"github.com/san-kum/nozzleflow/internal/export"
	"github.com/san-kum/nozzleflow/internal/sim"
	"github.com/san-kum/nozzleflow/internal/storage"
	"github.com/san-kum/nozzleflow/internal/viz"
)

var (
	dataDir      string
	profile      string
	soundSpeed   float64
	injectionVel float64
	timeScalePct float64
	numPoints    int
	duration     float64
	seed         int64
	threshold    int
	spawnRate    float64
	configFile   string
	preset       string
	svgWidth     int
	svgHeight    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nozzleflow",
		Short: "interactive quasi-1D compressible nozzle flow simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live TUI when no command is given.
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunLive(cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nozzleflow", "data directory")
	addFlowFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the result",
		RunE:  runSimulation,
	}
	addFlowFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive simulation with draggable duct walls",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunLive(cfg)
		},
	}
	addFlowFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot duct area and average velocity from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [file]",
		Short: "render a simulation frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addFlowFlags(exportSVGCmd)
	exportSVGCmd.Flags().Float64Var(&duration, "time", 2.0, "simulated time before the snapshot (s)")
	exportSVGCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "svg-width", 800, "SVG width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "svg-height", 400, "SVG height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-12s %s duct, c=%.0f m/s, inject %.0f m/s\n",
					name, p.Profile, p.SoundSpeed, p.InjectionVelocity)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFlowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&profile, "profile", "laval", "duct profile (laval|straight|converging|diverging)")
	cmd.Flags().Float64Var(&soundSpeed, "sound-speed", config.DefaultSoundSpeed, "speed of sound (m/s)")
	cmd.Flags().Float64Var(&injectionVel, "injection", config.DefaultInjectionVelocity, "injection velocity (m/s)")
	cmd.Flags().Float64Var(&timeScalePct, "time-scale", config.DefaultTimeScalePercent, "time scale (percent)")
	cmd.Flags().IntVar(&numPoints, "points", config.DefaultControlPoints, "control points per wall")
	cmd.Flags().IntVar(&threshold, "threshold", config.DefaultThreshold, "shock marker event threshold")
	cmd.Flags().Float64Var(&spawnRate, "spawn-rate", sim.DefaultSpawnRate, "particles per scaled second")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves the effective config: preset, then config file,
// then CLI flags, each layer overriding the previous one.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("profile") {
		cfg.Profile = profile
	}
	if cmd.Flags().Changed("sound-speed") {
		cfg.SoundSpeed = soundSpeed
	}
	if cmd.Flags().Changed("injection") {
		cfg.InjectionVelocity = injectionVel
	}
	if cmd.Flags().Changed("time-scale") {
		cfg.TimeScalePercent = timeScalePct
	}
	if cmd.Flags().Changed("points") {
		cfg.ControlPoints = numPoints
	}
	if cmd.Flags().Changed("threshold") {
		cfg.ShockThreshold = threshold
	}
	if cmd.Flags().Changed("spawn-rate") {
		cfg.SpawnRate = spawnRate
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine, err := sim.New(cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Printf("running %s duct for %.1fs...\n", cfg.Profile, cfg.Duration)
	start := time.Now()

	result, err := engine.Run(context.Background(), cfg.Duration, 1.0/60)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	frame := engine.Frame(engine.LastTick())

	runID, err := st.Save(cfg, result, frame)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  spawned: %d  exited: %d  stalled: %d\n",
		result.Steps, result.Spawned, result.Exited, result.Stalled)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROFILE\tTIME\tDURATION\tSOUND\tINJECT\tSHOCKS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.0f\t%.0f\t%.0f\n",
			run.ID,
			run.Profile,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.SoundSpeed,
			run.InjectionVelocity,
			run.Metrics["shock_events"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cols, err := st.LoadProfile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("profile: %s\n\n", meta.Profile)

	for _, col := range cols {
		if col.Name == "x" || len(col.Values) < 2 {
			continue
		}
		graph := asciigraph.Plot(col.Values,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption(col.Name+" along duct"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := sim.New(cfg.SimConfig())
	if err != nil {
		return err
	}
	if _, err := engine.Run(context.Background(), cfg.Duration, 1.0/60); err != nil {
		return err
	}

	svg := export.FrameToSVG(engine.Frame(engine.LastTick()), svgWidth, svgHeight)
	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
