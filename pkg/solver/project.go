package solver

import (
	"github.com/chazu/surftrim/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"
)

// Evaluator is a single parametric patch. *kernel.Patch implements it.
type Evaluator interface {
	EvaluatePoint(u, v float64) v3.Vec
	EvaluateDerivative(u, v float64, axis kernel.Axis) v3.Vec
}

// Projection is the result of Project. T is the auxiliary unknown standing
// in for the depth along the viewing axis; U and V are patch parameters.
type Projection struct {
	T, U, V float64
}

// Project finds parameters (u,v) of patch whose point lies under query
// when looking down the z axis. The returned parameters are not range
// checked. It reports false when Newton–Raphson does not converge within
// opts.MaxIterations or the iteration leaves finite numbers.
func Project(query v2.Vec, patch Evaluator, opts Options) (Projection, bool) {
	x := []float64{0, 0.5, 0.5}
	for range opts.MaxIterations {
		t, u, v := x[0], x[1], x[2]
		p := patch.EvaluatePoint(u, v)
		pu := patch.EvaluateDerivative(u, v, kernel.AxisU)
		pv := patch.EvaluateDerivative(u, v, kernel.AxisV)

		r := []float64{query.X - p.X, query.Y - p.Y, t - p.Z}
		j := mat.NewDense(3, 3, []float64{
			0, -pu.X, -pv.X,
			0, -pu.Y, -pv.Y,
			1, -pu.Z, -pv.Z,
		})

		next, norm, ok := newtonStep(x, j, r)
		if !ok || !finite(next...) {
			return Projection{}, false
		}
		x = next
		if norm < opts.Epsilon {
			return Projection{T: x[0], U: x[1], V: x[2]}, true
		}
	}
	return Projection{}, false
}
