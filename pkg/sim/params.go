package sim

import (
	"fmt"
	"math"
)

// Params holds the physical parameters of a simulation run. They are
// immutable once a State has been constructed from them.
type Params struct {
	Rho float64 // Number density n / L²
	N   int     // Number of particles
	K   float64 // Strength of the interparticle potential
	T   float64 // Temperature (translational noise)
	Dr  float64 // Rotational diffusivity
	V0  float64 // Activity (self-propulsion speed)
	Dt  float64 // Timestep
}

// BoxLength returns the side length of the square periodic box,
// derived from the density and the particle count.
func (p Params) BoxLength() float64 {
	return math.Sqrt(float64(p.N) / p.Rho)
}

// Validate checks the parameters before a State is constructed.
// The core assumes validated inputs and never re-checks them.
func (p Params) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("number of particles must be positive, got %d", p.N)
	}
	if p.Rho <= 0 {
		return fmt.Errorf("density must be positive, got %g", p.Rho)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("timestep must be positive, got %g", p.Dt)
	}
	if p.K < 0 {
		return fmt.Errorf("potential strength cannot be negative, got %g", p.K)
	}
	if p.T < 0 {
		return fmt.Errorf("temperature cannot be negative, got %g", p.T)
	}
	if p.Dr < 0 {
		return fmt.Errorf("rotational diffusivity cannot be negative, got %g", p.Dr)
	}
	if p.V0 < 0 {
		return fmt.Errorf("activity cannot be negative, got %g", p.V0)
	}
	return nil
}
