package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fdtdsim/internal/config"
	"github.com/san-kum/fdtdsim/internal/experiment"
	"github.com/san-kum/fdtdsim/internal/optim"
)

// parseParam splits "name=v1,v2,..." into a parameter name and its values.
func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2,...", s)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in --param %q: %w", s, err)
		}
		values = append(values, v)
	}
	return strings.TrimSpace(name), values, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (one of %s)", strings.Join(optim.Params, ", "))
	}
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	search := optim.NewGridSearch(names, ranges)
	if maximize {
		search.Maximize()
	}
	search.SetWorkers(base.Workers)

	fmt.Fprintf(out, "sweeping %s over %s on %s...\n", metricName, strings.Join(names, ", "), base.Name)
	start := time.Now()
	report, searchErr := search.Search(cmd.Context(), base, metricName)
	if report == nil {
		return searchErr
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PARAMS\t%s\n", strings.ToUpper(metricName))
	for _, t := range report.Trials {
		if t.Err != nil {
			fmt.Fprintf(w, "%s\tinvalid: %v\n", t, t.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\n", t, t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if searchErr != nil {
		return searchErr
	}
	fmt.Fprintf(out, "\nbest: %s (%s = %.6g) in %v\n", report.Best, metricName, report.Best.Value, time.Since(start))
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	name := "2d-glass"
	if len(args) > 0 {
		name = args[0]
	}
	if config.GetPreset(name) == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	n := max(benchSteps, 1)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %s for %d steps...\n\n", name, n)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tELAPSED\tSTEPS/S\tMCELLS/S")

	for _, wk := range []int{1, 0} {
		cfg := config.GetPreset(name)
		cfg.Workers = wk
		exp, err := experiment.New(cfg, "energy")
		if err != nil {
			return err
		}
		stepper := exp.Stepper()
		start := time.Now()
		for i := 0; i < n; i++ {
			stepper.Step()
		}
		elapsed := time.Since(start)

		label := strconv.Itoa(wk)
		if wk == 0 {
			label = "auto"
		}
		rate := float64(n) / elapsed.Seconds()
		cells := float64(cfg.Grid.Cells()) * rate / 1e6
		fmt.Fprintf(w, "%s\t%v\t%.0f\t%.1f\n", label, elapsed.Round(time.Microsecond), rate, cells)
	}
	return w.Flush()
}
