package viz

import (
	"context"
	"sync"
)

// Gate pauses a simulation goroutine between steps. The view flips it and the
// stepping loop calls Wait before each step. The zero value is open.
type Gate struct {
	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

func NewGate() *Gate { return &Gate{} }

func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

func (g *Gate) SetPaused(paused bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.set(paused)
}

// Toggle flips the gate and returns the new paused state.
func (g *Gate) Toggle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.set(!g.paused)
	return g.paused
}

func (g *Gate) set(paused bool) {
	if paused == g.paused {
		return
	}
	g.paused = paused
	if paused {
		g.resume = make(chan struct{})
	} else {
		close(g.resume)
	}
}

// Wait blocks while the gate is paused. It returns ctx.Err() if ctx ends first.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	if !g.paused {
		g.mu.Unlock()
		return ctx.Err()
	}
	ch := g.resume
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
