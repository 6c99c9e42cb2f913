package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/fdtdsim/internal/config"
	"github.com/san-kum/fdtdsim/internal/metrics"
	"github.com/san-kum/fdtdsim/internal/sim"
)

// Registry maps metric names to constructors that may read the run config.
type Registry struct {
	metrics map[string]func(cfg *config.Config) sim.Metric
}

func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]func(*config.Config) sim.Metric)}
}

// DefaultRegistry knows every metric in package metrics.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("energy", func(*config.Config) sim.Metric { return metrics.NewEnergy() })
	r.Register("energy_drift", func(cfg *config.Config) sim.Metric {
		return metrics.NewEnergyDrift(SettleStep(cfg))
	})
	r.Register("stability", func(*config.Config) sim.Metric { return metrics.NewStability(StabilityThreshold) })
	r.Register("peak_ez", func(*config.Config) sim.Metric { return metrics.NewPeakAmplitude() })
	return r
}

func (r *Registry) Register(name string, fn func(cfg *config.Config) sim.Metric) {
	r.metrics[name] = fn
}

func (r *Registry) Metric(name string, cfg *config.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
