package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/fdtdsim/internal/config"
	"github.com/san-kum/fdtdsim/internal/experiment"
	"github.com/san-kum/fdtdsim/internal/sim"
)

// Params names the config fields a sweep can vary.
var Params = []string{"courant", "index", "sigma", "t0", "steps"}

// Apply sets one swept parameter on cfg. index applies to every material
// region, sigma and t0 to every source.
func Apply(cfg *config.Config, name string, value float64) error {
	switch name {
	case "courant":
		cfg.Courant = value
	case "index":
		if len(cfg.Materials) == 0 {
			return fmt.Errorf("parameter index: config has no material regions")
		}
		for i := range cfg.Materials {
			cfg.Materials[i].Index = value
		}
	case "sigma":
		for i := range cfg.Sources {
			cfg.Sources[i].Sigma = value
		}
	case "t0":
		for i := range cfg.Sources {
			cfg.Sources[i].T0 = value
		}
	case "steps":
		cfg.Steps = int(value)
	default:
		return fmt.Errorf("unknown parameter %q (want one of %s)", name, strings.Join(Params, ", "))
	}
	return nil
}

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type Report struct {
	Metric string
	Best   Trial
	Trials []Trial
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes Search pick the largest metric value instead of the smallest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

func (g *GridSearch) SetWorkers(n int) { g.workers = n }

// Search runs every combination of parameter values on a copy of base and
// reports the best value of metricName. Combinations rejected by config
// validation or by the engine are kept in the report with their error and
// skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*Report, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var combos []map[string]float64
	g.searchRecursive(0, make(map[string]float64), &combos)

	report := &Report{Metric: metricName, Trials: make([]Trial, 0, len(combos))}
	jobs := make([]sim.Job, 0, len(combos))
	runnable := make([]int, 0, len(combos))

	for _, params := range combos {
		cfg := base.Clone()
		trial := Trial{Params: params, Value: math.NaN()}
		for _, name := range sortedKeys(params) {
			if err := Apply(cfg, name, params[name]); err != nil {
				return nil, err
			}
		}
		if err := cfg.Validate(); err != nil {
			trial.Err = err
			report.Trials = append(report.Trials, trial)
			continue
		}

		exp, err := experiment.New(cfg, metricName)
		if err != nil {
			trial.Err = err
			report.Trials = append(report.Trials, trial)
			continue
		}

		simCfg := cfg.SimConfig()
		// divergent trials still report their metrics
		simCfg.ValidateFields = false
		jobs = append(jobs, sim.Job{
			Name:   formatParams(params),
			Build:  func() (*sim.Simulator, error) { return exp.Simulator(), nil },
			Config: simCfg,
		})
		runnable = append(runnable, len(report.Trials))
		report.Trials = append(report.Trials, trial)
	}

	results, err := sim.Batch(ctx, jobs, g.workers)
	if err != nil {
		return nil, err
	}

	found := false
	for k, res := range results {
		trial := &report.Trials[runnable[k]]
		val, ok := res.Metrics[metricName]
		if !ok {
			return nil, fmt.Errorf("metric %q not reported", metricName)
		}
		trial.Value = val
		if math.IsNaN(val) {
			continue
		}
		if !found || g.better(val, report.Best.Value) {
			report.Best = *trial
			found = true
		}
	}
	if !found {
		return report, fmt.Errorf("no runnable trial among %d combinations", len(combos))
	}
	return report, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(depth+1, newParams, out)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatParams(params map[string]float64) string {
	parts := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
	}
	return strings.Join(parts, " ")
}

// String renders a trial's parameters as "a=1 b=2".
func (t Trial) String() string { return formatParams(t.Params) }
