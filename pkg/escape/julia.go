package escape

// Julia iterates z -> z^2 + C with the pixel as the starting point.
type Julia struct {
	C complex128
}

func (j Julia) Iterate(z complex128, maxIterations int) int {
	return orbit(real(z), imag(z), real(j.C), imag(j.C), maxIterations)
}
