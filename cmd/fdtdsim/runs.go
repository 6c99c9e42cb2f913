package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fdtdsim/internal/analysis"
	"github.com/san-kum/fdtdsim/internal/config"
	"github.com/san-kum/fdtdsim/internal/export"
	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tSTEPS\tS\tBOUNDARY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%g\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			shapeString(run.Grid),
			run.StepsTaken,
			run.Steps,
			run.Courant,
			run.Boundary,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	probes, err := st.LoadProbes(runID)
	if err != nil {
		return err
	}
	if len(probes.Steps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "grid: %s, boundary %s, S=%g\n", shapeString(meta.Grid), meta.Boundary, meta.Courant)
	fmt.Fprintf(out, "steps: %d\n\n", len(probes.Steps))

	for _, name := range probes.Names {
		graph := asciigraph.Plot(probes.Series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("Ez at probe %s", name)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, asciigraph.Plot(probes.Energy,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("total field energy"),
	))

	field, err := st.LoadField(runID)
	if err != nil || len(field) == 0 {
		return nil
	}
	j := pickRow(row, len(field))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(field[j],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("final Ez, row %d", j)),
	))
	return nil
}

// pickRow clamps a requested row; negative means the middle row.
func pickRow(j, rows int) int {
	if j < 0 || j >= rows {
		return rows / 2
	}
	return j
}

// output returns the command's writer, or a file when path is set.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var records [][]string
	if useField {
		field, err := st.LoadField(runID)
		if err != nil {
			return err
		}
		for _, cells := range field {
			rec := make([]string, len(cells))
			for i, v := range cells {
				rec[i] = strconv.FormatFloat(v, 'g', 10, 64)
			}
			records = append(records, rec)
		}
	} else {
		probes, err := st.LoadProbes(runID)
		if err != nil {
			return err
		}
		header := append([]string{"step"}, probes.Names...)
		records = append(records, append(header, "energy"))
		for k, step := range probes.Steps {
			rec := []string{strconv.Itoa(step)}
			for _, name := range probes.Names {
				rec = append(rec, strconv.FormatFloat(probes.Series[name][k], 'g', 10, 64))
			}
			records = append(records, append(rec, strconv.FormatFloat(probes.Energy[k], 'g', 10, 64)))
		}
	}

	w, closeFn, err := output(cmd, outFile)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", len(records), outFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	data, err := storage.New(dataDir).ExportRun(runID)
	if err != nil {
		return err
	}
	if outFile == "" {
		return storage.WriteJSON(cmd.OutOrStdout(), data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", runID, outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if probe != "" {
		probes, err := st.LoadProbes(runID)
		if err != nil {
			return err
		}
		series, ok := probes.Series[probe]
		if !ok {
			return fmt.Errorf("run %s has no probe %q (have %v)", runID, probe, probes.Names)
		}
		svg = export.TraceToSVG(series, 800, 300, "#00ccff")
	} else {
		field, err := st.LoadField(runID)
		if err != nil {
			return err
		}
		if len(field) == 0 {
			return fmt.Errorf("run %s: empty field", runID)
		}
		j := pickRow(row, len(field))
		var regions []fdtd.Region
		for _, r := range meta.Materials {
			if r.Rect.Contains(meta.Grid, r.Rect.X0, j) {
				regions = append(regions, r)
			}
		}
		svg = export.ProfileToSVG(field[j], regions, 0, 800, 300, "#00ff88")
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := export.Save(path, svg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", runID, path)
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runID := args[0]
	probes, err := storage.New(dataDir).LoadProbes(runID)
	if err != nil {
		return err
	}
	if len(probes.Names) == 0 {
		return fmt.Errorf("run %s has no probes", runID)
	}
	name := probe
	if name == "" {
		name = probes.Names[0]
	}
	trace, ok := probes.Series[name]
	if !ok {
		return fmt.Errorf("run %s has no probe %q (have %v)", runID, name, probes.Names)
	}

	ps := analysis.PowerSpectrum(trace)
	k := analysis.DominantBin(ps)
	peakStep, peakVal := analysis.Peak(trace)

	fmt.Fprintf(out, "probe: %s (%d samples, %d bins)\n", name, len(trace), len(ps))
	fmt.Fprintf(out, "peak |Ez|: %.6g at step %d\n", peakVal, peakStep)
	fmt.Fprintf(out, "arrival (half peak): step %d\n", analysis.ArrivalStep(trace, 0.5))
	fmt.Fprintf(out, "dominant bin: %d (%.5f cycles/step)\n\n", k, analysis.BinFrequency(k, len(ps)))
	if len(ps) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(ps,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tSTEPS\tS\tBOUNDARY\tREGIONS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%s\t%d\n",
			name, shapeString(cfg.Grid), cfg.Steps, cfg.Courant, cfg.Boundary, len(cfg.Materials))
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s config to %s\n", cfg.Name, args[0])
	return nil
}
