package escape

// EscapeRadiusSquared is the squared magnitude past which an orbit is known to
// diverge.
const EscapeRadiusSquared = 4.0

// An Evaluator counts the iterations before the orbit seeded by c escapes.
//
// Iterate returns a value in [0, maxIterations]. maxIterations means the orbit
// never escaped and c is believed to be in the set.
type Evaluator interface {
	Iterate(c complex128, maxIterations int) int
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(c complex128, maxIterations int) int

func (f EvaluatorFunc) Iterate(c complex128, maxIterations int) int {
	return f(c, maxIterations)
}

var (
	_ Evaluator = Mandelbrot{}
	_ Evaluator = Julia{}
	_ Evaluator = EvaluatorFunc(nil)
)

// orbit iterates z -> z^2 + c from z and returns the number of completed
// iterations before |z|^2 exceeded the escape radius.
func orbit(zr, zi, cr, ci float64, maxIterations int) int {
	for i := 0; i < maxIterations; i++ {
		nr := zr*zr - zi*zi + cr
		ni := 2.0*zr*zi + ci

		if nr*nr+ni*ni > EscapeRadiusSquared {
			return i
		}

		zr, zi = nr, ni
	}

	if maxIterations < 0 {
		return 0
	}
	return maxIterations
}
