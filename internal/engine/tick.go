package engine

import (
	"context"
	"log/slog"
	"time"
)

// Engine drives a Model forward until the run ends or the context is done.
type Engine struct {
	Model    *Model
	Interval time.Duration // Minimum wall time per step; 0 runs flat out

	// OnStep is called after every step with the iteration just completed.
	OnStep func(iteration int, counts Counts)
}

// NewEngine creates an engine for m with no pacing.
func NewEngine(m *Model) *Engine {
	return &Engine{Model: m}
}

// Run steps the model until it stops running. It returns ctx.Err() if the
// context ends first, nil otherwise.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "iteration", e.Model.Iteration(), "interval", e.Interval)

	for e.Model.Running() {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation engine interrupted", "iteration", e.Model.Iteration())
			return err
		}

		start := time.Now()

		done := e.Model.Iteration()
		e.Model.Step()
		if e.OnStep != nil {
			e.OnStep(done, e.Model.Counts())
		}

		// Sleep for the remainder of the interval.
		if wait := e.Interval - time.Since(start); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	slog.Info("simulation engine stopped", "iteration", e.Model.Iteration())
	return nil
}
