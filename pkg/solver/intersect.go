package solver

import (
	"github.com/chazu/surftrim/pkg/kernel"
	"gonum.org/v1/gonum/mat"
)

// Solution holds the parameters of a coincident point: (U,V) on the first
// surface, (S,T) on the second.
type Solution struct {
	U, V, S, T float64
}

// Solve runs Newton–Raphson from (u0,v0) on patch (i,j) of p and (s0,t0)
// on patch (k,l) of q toward a point where both surfaces meet. The
// Jacobian columns are the normalized partials, and its fourth row pins
// the t parameter. Parameters may leave [0,1]; callers range check.
//
// It reports false when the run does not converge, a derivative is
// degenerate, or the converged points are further apart than
// opts.CoincidenceTolerance.
func Solve(p kernel.Surface, i, j int, u0, v0 float64, q kernel.Surface, k, l int, s0, t0 float64, opts Options) (Solution, bool) {
	x := []float64{u0, v0, s0, t0}
	for range opts.MaxIterations {
		u, v, s, t := x[0], x[1], x[2], x[3]
		pp := p.EvaluatePoint(i, j, u, v)
		qp := q.EvaluatePoint(k, l, s, t)

		pu := p.EvaluateDerivative(i, j, u, v, kernel.AxisU).Normalize()
		pv := p.EvaluateDerivative(i, j, u, v, kernel.AxisV).Normalize()
		qs := q.EvaluateDerivative(k, l, s, t, kernel.AxisU).MulScalar(-1).Normalize()
		qt := q.EvaluateDerivative(k, l, s, t, kernel.AxisV).MulScalar(-1).Normalize()

		d := pp.Sub(qp)
		r := []float64{d.X, d.Y, d.Z, 0}
		jac := mat.NewDense(4, 4, []float64{
			pu.X, pv.X, qs.X, qt.X,
			pu.Y, pv.Y, qs.Y, qt.Y,
			pu.Z, pv.Z, qs.Z, qt.Z,
			0, 0, 0, 1,
		})

		next, norm, ok := newtonStep(x, jac, r)
		if !ok || !finite(next...) {
			return Solution{}, false
		}
		x = next
		if norm < opts.Epsilon {
			sol := Solution{U: x[0], V: x[1], S: x[2], T: x[3]}
			gap := p.EvaluatePoint(i, j, sol.U, sol.V).Sub(q.EvaluatePoint(k, l, sol.S, sol.T)).Length()
			if !(gap <= opts.CoincidenceTolerance) {
				return Solution{}, false
			}
			return sol, true
		}
	}
	return Solution{}, false
}
