// Package observables accumulates pair-correlation histograms and
// force statistics over the states of a running simulation.
package observables

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/softmatterlab/activebrownian/pkg/sim"
)

// Config selects what the correlation accumulator measures.
type Config struct {
	StepR     float64 // Width of a spatial bin
	NDivAngle int     // Number of angular divisions
	LessObs   bool    // Histogram only (r, θ1) instead of (r, θ1, θ2)
	Cartesian bool    // Bin (dx, dy, Δθ) instead of polar coordinates
}

// Correlations accumulates pair correlations between particle
// separations and orientations, plus the internal force projected on
// each particle's orientation. One Accumulate call adds one sample.
type Correlations struct {
	length    float64
	nParts    int
	cfg       Config
	nDivR     int
	scalAngle float64

	counts []int64
	fAlong []float64
	nCalls int
}

// NewCorrelations creates an accumulator for states of the given box
// length and particle count.
func NewCorrelations(length float64, nParts int, cfg Config) (*Correlations, error) {
	if cfg.StepR <= 0 {
		return nil, fmt.Errorf("spatial bin width must be positive, got %g", cfg.StepR)
	}
	if cfg.NDivAngle <= 0 {
		return nil, fmt.Errorf("number of angular divisions must be positive, got %d", cfg.NDivAngle)
	}
	if cfg.LessObs && cfg.Cartesian {
		return nil, fmt.Errorf("reduced and cartesian correlations are mutually exclusive")
	}

	c := &Correlations{
		length:    length,
		nParts:    nParts,
		cfg:       cfg,
		scalAngle: float64(cfg.NDivAngle) / (2 * math.Pi),
	}

	switch {
	case cfg.Cartesian:
		// Displacements live in [-L/2, L/2) on both axes.
		c.nDivR = int(length/cfg.StepR) + 1
		c.counts = make([]int64, c.nDivR*c.nDivR*cfg.NDivAngle)
	case cfg.LessObs:
		c.nDivR = int(length/(2*cfg.StepR)) + 1
		c.counts = make([]int64, c.nDivR*cfg.NDivAngle)
	default:
		c.nDivR = int(length/(2*cfg.StepR)) + 1
		c.counts = make([]int64, c.nDivR*cfg.NDivAngle*cfg.NDivAngle)
	}

	return c, nil
}

// Accumulate adds one sample from the current state: every ordered
// particle pair is binned by minimum-image separation and by the two
// orientations measured from the separation direction (or by relative
// orientation in cartesian mode).
func (c *Correlations) Accumulate(s *sim.State) {
	x, y := s.Positions()
	theta := s.Orientations()

	for i := 0; i < c.nParts; i++ {
		for j := 0; j < c.nParts; j++ {
			if i == j {
				continue
			}
			dx := sim.WrapCentered(x[i]-x[j], c.length)
			dy := sim.WrapCentered(y[i]-y[j], c.length)

			if c.cfg.Cartesian {
				bx := int((dx + c.length/2) / c.cfg.StepR)
				by := int((dy + c.length/2) / c.cfg.StepR)
				bt := c.angleBin(theta[j] - theta[i])
				c.counts[(bx*c.nDivR+by)*c.cfg.NDivAngle+bt]++
				continue
			}

			r := math.Hypot(dx, dy)
			if r >= c.length/2 {
				continue
			}
			br := int(r / c.cfg.StepR)
			phi := math.Atan2(dy, dx)
			b1 := c.angleBin(theta[i] - phi)
			if c.cfg.LessObs {
				c.counts[br*c.cfg.NDivAngle+b1]++
			} else {
				b2 := c.angleBin(theta[j] - phi)
				c.counts[(br*c.cfg.NDivAngle+b1)*c.cfg.NDivAngle+b2]++
			}
		}
	}

	fx, fy := s.Forces()
	sum := 0.0
	for i := 0; i < c.nParts; i++ {
		si, ci := math.Sincos(theta[i])
		sum += fx[i]*ci + fy[i]*si
	}
	c.fAlong = append(c.fAlong, sum/float64(c.nParts))
	c.nCalls++
}

func (c *Correlations) angleBin(a float64) int {
	return int(sim.Wrap(a, 2*math.Pi)*c.scalAngle) % c.cfg.NDivAngle
}

// Samples returns how many states have been accumulated.
func (c *Correlations) Samples() int {
	return c.nCalls
}

// PairCounts returns the total number of histogram entries.
func (c *Correlations) PairCounts() int64 {
	var total int64
	for _, v := range c.counts {
		total += v
	}
	return total
}

// Counts returns the flat histogram. The layout is
// (r, θ1), (r, θ1, θ2) or (dx, dy, Δθ) depending on the configuration,
// innermost index last.
func (c *Correlations) Counts() []int64 {
	return c.counts
}

// SpatialDivs returns the number of spatial divisions per axis.
func (c *Correlations) SpatialDivs() int {
	return c.nDivR
}

// FAlongStats returns the mean and standard deviation of the internal
// force along the particle orientations, one sample per Accumulate.
func (c *Correlations) FAlongStats() (mean, stddev float64) {
	if len(c.fAlong) == 0 {
		return 0, 0
	}
	mean = stat.Mean(c.fAlong, nil)
	if len(c.fAlong) > 1 {
		stddev = stat.StdDev(c.fAlong, nil)
	}
	return mean, stddev
}
