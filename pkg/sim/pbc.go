package sim

// Wrap reduces v into the canonical periodic range [0, period). It is
// applied to stored positions and orientations after every step.
func Wrap(v, period float64) float64 {
	for v < 0 {
		v += period
	}
	for v >= period {
		v -= period
	}
	return v
}

// WrapCentered reduces v into [-period/2, period/2). It is used only
// for minimum-image displacements, never for stored coordinates.
func WrapCentered(v, period float64) float64 {
	half := period / 2
	for v < -half {
		v += period
	}
	for v >= half {
		v -= period
	}
	return v
}
