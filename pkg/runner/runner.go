// Package runner drives a simulation for a configured number of
// timesteps: thermalization, observable accumulation, progress
// reporting, optional throttling and periodic snapshots.
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/softmatterlab/activebrownian/pkg/observables"
	"github.com/softmatterlab/activebrownian/pkg/sim"
)

// Config controls one run of the simulation loop.
type Config struct {
	Iters         int           // Main iterations
	ItersTherm    int           // Thermalization iterations, discarded
	Skip          int           // Steps between observable accumulations
	Sleep         time.Duration // Pause between iterations, zero to run flat out
	SnapshotEvery int           // Steps between snapshots, zero to disable
}

// Validate checks the run configuration before the loop starts.
func (c Config) Validate() error {
	if c.Iters <= 0 {
		return fmt.Errorf("number of iterations must be positive, got %d", c.Iters)
	}
	if c.ItersTherm < 0 {
		return fmt.Errorf("thermalization iterations cannot be negative, got %d", c.ItersTherm)
	}
	if c.Skip <= 0 {
		return fmt.Errorf("skip must be positive, got %d", c.Skip)
	}
	if c.SnapshotEvery < 0 {
		return fmt.Errorf("snapshot interval cannot be negative, got %d", c.SnapshotEvery)
	}
	return nil
}

// Runner executes the simulation loop over a State. Observables and
// snapshots are optional.
type Runner struct {
	state *sim.State
	obs   *observables.Correlations
	sink  SnapshotSink
	cfg   Config

	stepsDone int
}

// New creates a runner. obs and sink may be nil.
func New(state *sim.State, obs *observables.Correlations, sink SnapshotSink, cfg Config) *Runner {
	return &Runner{state: state, obs: obs, sink: sink, cfg: cfg}
}

// StepsDone returns the number of main-loop steps completed so far.
func (r *Runner) StepsDone() int {
	return r.stepsDone
}

// Run executes thermalization followed by the main loop. Individual
// steps are atomic; cancellation is honored between steps and reported
// as the context error.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid run configuration: %w", err)
	}

	start := time.Now()
	dt := r.state.Params().Dt

	if r.sink != nil {
		if err := r.sink.OnStart(r.cfg.Iters, r.cfg.SnapshotEvery); err != nil {
			return fmt.Errorf("snapshot sink failed to start: %w", err)
		}
	}

	if r.cfg.ItersTherm > 0 {
		log.Printf("Thermalizing for %d steps", r.cfg.ItersTherm)
		for i := 0; i < r.cfg.ItersTherm; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.state.Evolve()
			r.throttle()
		}
	}

	progressEvery := r.cfg.Iters / 100
	if progressEvery == 0 {
		progressEvery = 1
	}

	log.Printf("Running %d steps over %d particles", r.cfg.Iters, r.state.N())
	for i := 0; i < r.cfg.Iters; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.state.Evolve()
		r.stepsDone++

		if r.obs != nil && r.stepsDone%r.cfg.Skip == 0 {
			r.obs.Accumulate(r.state)
		}
		if r.sink != nil && r.cfg.SnapshotEvery > 0 && r.stepsDone%r.cfg.SnapshotEvery == 0 {
			t := float64(r.cfg.ItersTherm+r.stepsDone) * dt
			if err := r.sink.OnSnapshot(r.stepsDone, t, r.state); err != nil {
				return fmt.Errorf("snapshot at step %d failed: %w", r.stepsDone, err)
			}
		}
		if r.stepsDone%progressEvery == 0 {
			log.Printf("Progress: %d/%d steps (%.0f%%)", r.stepsDone, r.cfg.Iters,
				100*float64(r.stepsDone)/float64(r.cfg.Iters))
		}
		r.throttle()
	}

	if r.sink != nil {
		finalT := float64(r.cfg.ItersTherm+r.stepsDone) * dt
		if err := r.sink.OnEnd(finalT); err != nil {
			return fmt.Errorf("snapshot sink failed to finish: %w", err)
		}
	}

	log.Printf("Run completed in %v", time.Since(start))
	return nil
}

func (r *Runner) throttle() {
	if r.cfg.Sleep > 0 {
		time.Sleep(r.cfg.Sleep)
	}
}
