package sim

import (
	"math"
	"testing"
)

// bruteForces is the O(n²) all-pairs reference the cell-list version
// must agree with.
func bruteForces(x, y []float64, k, length float64) (fx, fy []float64) {
	n := len(x)
	fx = make([]float64, n)
	fy = make([]float64, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := WrapCentered(x[i]-x[j], length)
			dy := WrapCentered(y[i]-y[j], length)
			dr2 := dx*dx + dy*dy
			if dr2 <= 0 || dr2 >= 1 {
				continue
			}
			u := k * (1/math.Sqrt(dr2) - 1)
			fx[i] += u * dx
			fx[j] -= u * dx
			fy[i] += u * dy
			fy[j] -= u * dy
		}
	}
	return fx, fy
}

func TestForceFieldMatchesBruteForce(t *testing.T) {
	configs := []struct {
		name   string
		n      int
		length float64
		seed   uint64
	}{
		{"dilute", 60, 15, 10},
		{"dense", 500, 12, 11},
		{"small box", 30, 4, 12},
		{"single cell box", 10, 2, 13},
	}

	const k = 8.0
	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			x, y := randomPositions(tc.n, tc.length, tc.seed)
			// Guarantee pairs across the periodic boundary.
			if tc.n >= 2 {
				x[0], y[0] = 0.05, tc.length/2
				x[1], y[1] = tc.length-0.05, tc.length/2+0.3
			}

			ff := NewForceField(k, tc.length, tc.n, 1)
			fx, fy := ff.Compute(x, y)
			wantX, wantY := bruteForces(x, y, k, tc.length)

			for i := 0; i < tc.n; i++ {
				if math.Abs(fx[i]-wantX[i]) > 1e-9 || math.Abs(fy[i]-wantY[i]) > 1e-9 {
					t.Fatalf("particle %d: force (%g, %g), brute force (%g, %g)",
						i, fx[i], fy[i], wantX[i], wantY[i])
				}
			}
		})
	}
}

func TestForceFieldNewtonThirdLaw(t *testing.T) {
	const n = 300
	const length = 10.0
	x, y := randomPositions(n, length, 20)

	ff := NewForceField(5, length, n, 1)
	fx, fy := ff.Compute(x, y)

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += fx[i]
		sumY += fy[i]
	}
	if math.Abs(sumX) > 1e-9 || math.Abs(sumY) > 1e-9 {
		t.Fatalf("total internal force (%g, %g), want zero", sumX, sumY)
	}
}

func TestForceFieldPairContributionAntisymmetric(t *testing.T) {
	// Two isolated particles: forces must be exact negations.
	const length = 6.0
	x := []float64{2.0, 2.7}
	y := []float64{3.0, 3.4}

	ff := NewForceField(3, length, 2, 1)
	fx, fy := ff.Compute(x, y)

	if fx[0] != -fx[1] || fy[0] != -fy[1] {
		t.Fatalf("pair forces not antisymmetric: (%g,%g) vs (%g,%g)",
			fx[0], fy[0], fx[1], fy[1])
	}
	if fx[0] == 0 && fy[0] == 0 {
		t.Fatalf("expected non-zero force inside the cutoff")
	}
}

func TestForceFieldZeroAtAndBeyondCutoff(t *testing.T) {
	const length = 8.0
	cases := []struct {
		name string
		sep  float64
	}{
		{"at cutoff", 1.0},
		{"beyond cutoff", 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x := []float64{3.0, 3.0 + tc.sep}
			y := []float64{4.0, 4.0}
			ff := NewForceField(10, length, 2, 1)
			fx, fy := ff.Compute(x, y)
			for i := range fx {
				if fx[i] != 0 || fy[i] != 0 {
					t.Fatalf("separation %g: force on %d = (%g, %g), want zero",
						tc.sep, i, fx[i], fy[i])
				}
			}
		})
	}
}

func TestForceFieldRepulsionAcrossBoundary(t *testing.T) {
	const length = 9.0
	// Raw coordinate difference is 8.6; the minimum image is 0.4.
	x := []float64{0.2, length - 0.2}
	y := []float64{4.0, 4.0}

	ff := NewForceField(2, length, 2, 1)
	fx, _ := ff.Compute(x, y)

	// Particle 0 sits just right of the boundary, its neighbor just
	// left of it: 0 must be pushed right (positive x).
	if fx[0] <= 0 {
		t.Fatalf("force on particle 0 = %g, want positive (pushed away across the boundary)", fx[0])
	}
	if fx[1] != -fx[0] {
		t.Fatalf("boundary pair not antisymmetric: %g vs %g", fx[0], fx[1])
	}
}

func TestForceFieldParallelMatchesSerial(t *testing.T) {
	const n = 400
	const length = 12.0
	x, y := randomPositions(n, length, 30)

	serial := NewForceField(7, length, n, 1)
	parallel := NewForceField(7, length, n, 4)

	sfx, sfy := serial.Compute(x, y)
	pfx, pfy := parallel.Compute(x, y)

	for i := 0; i < n; i++ {
		if math.Abs(sfx[i]-pfx[i]) > 1e-9 || math.Abs(sfy[i]-pfy[i]) > 1e-9 {
			t.Fatalf("particle %d: serial (%g, %g) vs parallel (%g, %g)",
				i, sfx[i], sfy[i], pfx[i], pfy[i])
		}
	}
}

func TestForceFieldBuffersOverwritten(t *testing.T) {
	const length = 6.0
	x := []float64{1.0, 1.5}
	y := []float64{1.0, 1.0}

	ff := NewForceField(4, length, 2, 1)
	ff.Compute(x, y)

	// Move the pair out of interaction range: stale contributions from
	// the previous call must not survive.
	x[1] = 4.0
	fx, fy := ff.Compute(x, y)
	for i := range fx {
		if fx[i] != 0 || fy[i] != 0 {
			t.Fatalf("stale force on particle %d: (%g, %g)", i, fx[i], fy[i])
		}
	}
}
