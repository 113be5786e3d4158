// Package sim implements the state-evolution engine for a 2-D
// suspension of interacting active Brownian particles: a periodic cell
// list, short-range harmonic-sphere forces and the Euler-Maruyama
// integration of the coupled Langevin equations.
package sim

import (
	"fmt"
	"math"
)

// Options configures the non-physical aspects of a State.
type Options struct {
	Seed    uint64  // Seed for the owned random stream
	Backend Backend // Integration backend, BackendScalar when empty
	Workers int     // Goroutines for the force loop, serial when <= 1
}

// State owns the particle arrays and the machinery to advance them.
// Construction draws random initial conditions; afterwards Evolve is
// the single operation that mutates the state, one timestep per call.
type State struct {
	params Params
	length float64

	x, y  []float64
	theta []float64

	noise  *Noise
	forces *ForceField
	integ  *Integrator
}

// NewState builds a simulation state from validated parameters.
// Positions are drawn uniformly in [0, L)², orientations uniformly in
// [0, 2π). The state owns its random stream: two states built with the
// same parameters and seed produce bit-identical trajectories.
func NewState(p Params, opts Options) (*State, error) {
	length := p.BoxLength()
	noise := NewNoise(opts.Seed)

	integ, err := NewIntegrator(p, length, p.N, noise, opts.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create integrator: %w", err)
	}

	s := &State{
		params: p,
		length: length,
		x:      make([]float64, p.N),
		y:      make([]float64, p.N),
		theta:  make([]float64, p.N),
		noise:  noise,
		forces: NewForceField(p.K, length, p.N, opts.Workers),
		integ:  integ,
	}

	s.noise.FillUniform(s.x, 0, length)
	s.noise.FillUniform(s.y, 0, length)
	s.noise.FillUniform(s.theta, 0, 2*math.Pi)

	return s, nil
}

// Evolve advances the system by one timestep: recompute the pairwise
// forces (rebuilding the cell list), then integrate the Langevin update
// and wrap all coordinates. A step is atomic from the caller's view.
func (s *State) Evolve() {
	fx, fy := s.forces.Compute(s.x, s.y)
	s.integ.Step(s.x, s.y, s.theta, fx, fy)
}

// Params returns the physical parameters the state was built with.
func (s *State) Params() Params {
	return s.params
}

// BoxLength returns the side length of the periodic box.
func (s *State) BoxLength() float64 {
	return s.length
}

// N returns the number of particles.
func (s *State) N() int {
	return s.params.N
}

// Positions returns the live coordinate slices. Callers observe them
// between steps and must not mutate them.
func (s *State) Positions() (x, y []float64) {
	return s.x, s.y
}

// Orientations returns the live orientation slice, wrapped to [0, 2π).
func (s *State) Orientations() []float64 {
	return s.theta
}

// Forces returns the force buffers from the most recent Evolve call,
// for diagnostics. The contents are overwritten on the next step.
func (s *State) Forces() (fx, fy []float64) {
	return s.forces.fx, s.forces.fy
}
