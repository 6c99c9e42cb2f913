package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/fdtdsim/internal/config"
	"github.com/san-kum/fdtdsim/internal/experiment"
	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/optim"
	"github.com/san-kum/fdtdsim/internal/render"
	"github.com/san-kum/fdtdsim/internal/storage"
	"github.com/san-kum/fdtdsim/internal/viz"
)

// loadConfig layers preset, then config file, then explicitly set flags over
// the default run.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = runName
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("courant") {
		cfg.Courant = courant
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("nx") {
		cfg.Grid.Nx = nx
	}
	if flags.Changed("ny") {
		cfg.Grid.Ny = ny
	}
	if flags.Changed("index") {
		if err := optim.Apply(cfg, "index", index); err != nil {
			return nil, err
		}
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("allow-unstable") {
		cfg.AllowUnstable = unstable
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Fprintf(out, "running %s (%s, %d steps, S=%g)...\n", cfg.Name, shapeString(cfg.Grid), cfg.Steps, cfg.Courant)
	start := time.Now()
	result, runErr := exp.Run(cmd.Context())
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(out, "stopped after %d steps: %v\n", result.StepsTaken, runErr)
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "peak energy: %.6g\n", result.PeakEnergy())
	fmt.Fprintln(out, "\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
	return runErr
}

func renderFrames(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	rec := render.NewRecorder(cfg.Materials)
	rec.Dir = outDir
	rec.Frames.Gain = frameGain
	exp.Simulator().AddObserver(rec)

	fmt.Fprintf(out, "rendering %s every %d steps into %s...\n", cfg.Name, max(cfg.SnapshotEvery, 1), outDir)
	if _, err := exp.Run(cmd.Context()); err != nil {
		return err
	}
	if err := rec.Err(); err != nil {
		return fmt.Errorf("png: %w", err)
	}

	gifPath := filepath.Join(outDir, cfg.Name+".gif")
	if err := rec.SaveGIF(gifPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %d png files and %s (%d frames)\n", len(rec.Files()), gifPath, len(rec.Images()))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	gate := viz.NewGate()
	model := viz.NewModel(viz.Options{
		Title:   cfg.Name,
		Steps:   cfg.Steps,
		Regions: cfg.Materials,
		Gate:    gate,
		Theme:   theme,
		Gain:    liveGain,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	delay := time.Second / time.Duration(max(frameRate, 1))
	stride := max(every, 1)

	go func() {
		err := exp.Simulator().RunWithCallback(ctx, cfg.Steps, true, func(snap *fdtd.Snapshot) bool {
			if snap.Step%stride != 0 {
				return true
			}
			p.Send(viz.FrameMsg{Snap: snap})
			select {
			case <-ctx.Done():
				return false
			case <-time.After(delay):
			}
			return gate.Wait(ctx) == nil
		})
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		p.Send(viz.DoneMsg{Err: err})
	}()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func shapeString(s fdtd.Shape) string {
	if s.Dims() == 1 {
		return fmt.Sprintf("%d cells", s.Nx)
	}
	return fmt.Sprintf("%dx%d", s.Nx, s.Ny)
}
