// Package solver holds the two Newton–Raphson solvers used while tracing a
// trimming curve: projecting a 2D pick onto a patch, and finding a point
// where two patches coincide.
package solver

// Options bounds a Newton–Raphson run.
type Options struct {
	// Epsilon is the convergence threshold on the L1 norm of one step.
	Epsilon float64
	// MaxIterations is the number of steps after which a run gives up.
	MaxIterations int
	// CoincidenceTolerance is the largest distance between the two surface
	// points Solve accepts as an intersection.
	CoincidenceTolerance float64
}

// DefaultOptions returns the standard solver limits.
func DefaultOptions() Options {
	return Options{
		Epsilon:              1e-7,
		MaxIterations:        20,
		CoincidenceTolerance: 1e-4,
	}
}
