package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/fdtdsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	runName    string
	steps      int
	courant    float64
	boundary   string
	nx         int
	ny         int
	index      float64
	workers    int
	unstable   bool
	// frames
	outDir    string
	frameGain float64
	// live
	frameRate int
	every     int
	theme     string
	liveGain  float64
	// exports
	outFile  string
	probe    string
	row      int
	useField bool
	// sweep
	sweepParams []string
	metricName  string
	maximize    bool
	benchSteps  int
)

func main() {
	rootCmd := newRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// addConfigFlags registers the flags that layer over a preset or config file.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&runName, "name", "", "run name")
	f.IntVar(&steps, "steps", 500, "number of time steps")
	f.Float64Var(&courant, "courant", 1, "courant number S")
	f.StringVar(&boundary, "boundary", "absorbing", "boundary policy (fixed, absorbing)")
	f.IntVar(&nx, "nx", 200, "cells along x")
	f.IntVar(&ny, "ny", 1, "cells along y (1 for a line)")
	f.Float64Var(&index, "index", 2, "refractive index of every material region")
	f.IntVar(&workers, "workers", 0, "row-band workers for 2D updates (0 = GOMAXPROCS)")
	f.BoolVar(&unstable, "allow-unstable", false, "skip the courant stability check")
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fdtdsim",
		Short:        "finite-difference time-domain field simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fdtdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store probes, energy and the final field",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "run a simulation and render PNG snapshots plus an animated GIF",
		Args:  cobra.NoArgs,
		RunE:  renderFrames,
	}
	addConfigFlags(framesCmd)
	framesCmd.Flags().StringVar(&outDir, "out", "frames", "output directory")
	framesCmd.Flags().Float64Var(&frameGain, "gain", 10, "GIF display gain")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&every, "every", 1, "send every n-th step to the view")
	liveCmd.Flags().StringVar(&theme, "theme", "moreland", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().Float64Var(&liveGain, "gain", 1, "display gain")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot probe traces, energy and the final field",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&row, "row", -1, "field row to plot (default: middle)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export probe traces (or the final field) to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCSVCmd.Flags().BoolVar(&useField, "field", false, "export the final field instead of probes")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final field profile or a probe trace to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&probe, "probe", "", "draw this probe trace instead of the field")
	exportSVGCmd.Flags().IntVar(&row, "row", -1, "field row (default: middle)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "power spectrum of a probe trace",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().StringVar(&probe, "probe", "", "probe name (default: first)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a preset or the default config as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "preset to write")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over config parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter values, e.g. courant=0.25,0.5,0.7 (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the largest metric value")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark serial and row-parallel stepping",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchPreset,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")

	rootCmd.AddCommand(runCmd, framesCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, spectrumCmd, presetsCmd, configCmd, sweepCmd, benchCmd)
	return rootCmd
}
