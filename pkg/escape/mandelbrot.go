package escape

// Mandelbrot iterates z -> z^2 + c starting from z = 0.
type Mandelbrot struct{}

func (Mandelbrot) Iterate(c complex128, maxIterations int) int {
	return orbit(0, 0, real(c), imag(c), maxIterations)
}
