package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job builds one independent simulation. Build is called on the worker
// goroutine so every job owns its grid.
type Job struct {
	Name   string
	Build  func() (*Simulator, error)
	Config Config
}

// Batch runs jobs concurrently, at most workers at a time (<= 0 uses
// GOMAXPROCS). Results keep the order of jobs. The first failure cancels the
// jobs that have not finished.
func Batch(ctx context.Context, jobs []Job, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx, job := range jobs {
		idx, job := idx, job
		g.Go(func() error {
			s, err := job.Build()
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			res, err := s.Run(ctx, job.Config)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
