package sim

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Noise is the single random stream driving one simulation. It owns a
// seeded source, so independent states never share generator state and
// identical seeds reproduce identical trajectories. A Noise must not be
// used by more than one evolution sequence at a time.
type Noise struct {
	src rand.Source
}

// NewNoise creates a noise stream from an explicit seed.
func NewNoise(seed uint64) *Noise {
	return &Noise{src: rand.NewSource(seed)}
}

// FillUniform overwrites dst with independent draws from Uniform(min, max).
func (n *Noise) FillUniform(dst []float64, min, max float64) {
	u := distuv.Uniform{Min: min, Max: max, Src: n.src}
	for i := range dst {
		dst[i] = u.Rand()
	}
}

// FillNormal overwrites dst with independent draws from Normal(0, sigma).
// A zero sigma yields zeros while still consuming one draw per entry, so
// the stream position does not depend on the parameters.
func (n *Noise) FillNormal(dst []float64, sigma float64) {
	d := distuv.Normal{Mu: 0, Sigma: sigma, Src: n.src}
	for i := range dst {
		dst[i] = d.Rand()
	}
}
