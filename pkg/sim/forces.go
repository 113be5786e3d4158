package sim

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// ForceField computes the pairwise harmonic-sphere forces between all
// particles. The potential is purely repulsive, zero at the cutoff
// distance of one particle diameter and diverging at full overlap.
// Force buffers are owned by the field and reused across calls.
type ForceField struct {
	k       float64
	length  float64
	cells   *CellList
	fx, fy  []float64
	workers int

	// Per-worker accumulation buffers for the parallel path. Each worker
	// writes both sides of a pair into its own buffer, so no two
	// goroutines ever touch the same slice.
	wfx, wfy [][]float64
}

// NewForceField creates a force field for n particles in a box of the
// given side length. With workers > 1 the cell loop is split across
// goroutines; the results are identical up to floating-point summation
// order.
func NewForceField(k, length float64, n, workers int) *ForceField {
	if workers < 1 {
		workers = 1
	}
	ff := &ForceField{
		k:       k,
		length:  length,
		cells:   NewCellList(length, n),
		fx:      make([]float64, n),
		fy:      make([]float64, n),
		workers: workers,
	}
	if workers > 1 {
		ff.wfx = make([][]float64, workers)
		ff.wfy = make([][]float64, workers)
		for w := 0; w < workers; w++ {
			ff.wfx[w] = make([]float64, n)
			ff.wfy[w] = make([]float64, n)
		}
	}
	return ff
}

// Compute rebuilds the cell list from the current positions and returns
// the net force on every particle. The returned slices are owned by the
// ForceField and overwritten on the next call.
func (ff *ForceField) Compute(x, y []float64) (fx, fy []float64) {
	for i := range ff.fx {
		ff.fx[i] = 0
		ff.fy[i] = 0
	}

	ff.cells.Build(x, y)

	if ff.workers > 1 {
		ff.computeParallel(x, y)
	} else {
		for b1 := 0; b1 < ff.cells.CellCount(); b1++ {
			ff.pairCell(b1, x, y, ff.fx, ff.fy)
		}
	}
	return ff.fx, ff.fy
}

// computeParallel distributes contiguous cell ranges over the worker
// pool and merges the per-worker buffers afterwards.
func (ff *ForceField) computeParallel(x, y []float64) {
	ncells := ff.cells.CellCount()
	chunk := (ncells + ff.workers - 1) / ff.workers

	var wg sync.WaitGroup
	for w := 0; w < ff.workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > ncells {
			hi = ncells
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			wfx, wfy := ff.wfx[w], ff.wfy[w]
			for i := range wfx {
				wfx[i] = 0
				wfy[i] = 0
			}
			for b1 := lo; b1 < hi; b1++ {
				ff.pairCell(b1, x, y, wfx, wfy)
			}
		}(w, lo, hi)
	}
	wg.Wait()

	for w := 0; w < ff.workers; w++ {
		floats.Add(ff.fx, ff.wfx[w])
		floats.Add(ff.fy, ff.wfy[w])
	}
}

// pairCell accumulates the interactions of every particle in cell b1
// with the particles of the cells in b1's half-stencil. Same-cell pairs
// are restricted to j > i; together with the anti-symmetric stencil this
// evaluates every unordered pair exactly once.
func (ff *ForceField) pairCell(b1 int, x, y, fx, fy []float64) {
	parts := ff.cells.ParticlesIn(b1)
	for _, b2 := range ff.cells.NeighborsOf(b1) {
		if b1 == b2 {
			for ii, i := range parts {
				for _, j := range parts[ii+1:] {
					ff.interact(i, j, x, y, fx, fy)
				}
			}
			continue
		}
		other := ff.cells.ParticlesIn(b2)
		for _, i := range parts {
			for _, j := range other {
				ff.interact(i, j, x, y, fx, fy)
			}
		}
	}
}

// interact applies the pair force between particles i and j to both,
// using the minimum-image displacement. Interaction applies only below
// the cutoff dr² < 1; the strict lower bound excludes the degenerate
// zero self-distance. Near-zero separations drive the force toward
// overflow, which is a property of the harmonic-sphere potential at
// full overlap and self-limiting under a reasonable timestep.
func (ff *ForceField) interact(i, j int, x, y, fx, fy []float64) {
	dx := WrapCentered(x[i]-x[j], ff.length)
	dy := WrapCentered(y[i]-y[j], ff.length)
	dr2 := dx*dx + dy*dy
	if dr2 <= 0 || dr2 >= 1 {
		return
	}
	u := ff.k * (1/math.Sqrt(dr2) - 1)
	ufx := u * dx
	ufy := u * dy
	fx[i] += ufx
	fx[j] -= ufx
	fy[i] += ufy
	fy[j] -= ufy
}
