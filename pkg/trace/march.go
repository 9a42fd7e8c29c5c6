package trace

import (
	"math"

	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/chazu/surftrim/pkg/solver"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// march follows the curve from seed along dir·tangent (dir is ±1) until
// it terminates. The seed itself is not included.
func (t *Tracer) march(seed Point, dir float64) ([]Point, Termination) {
	chord := 1 / t.params.StepDivisor
	var points []Point
	left := false

	cur := seed
	for len(points) < t.params.MaxSteps {
		next, term, ok := t.step(cur, dir)
		if !ok {
			return points, term
		}
		points = append(points, next)

		d := next.Position.Sub(seed.Position).Length()
		if d > 2*chord {
			left = true
		} else if left && d < chord {
			return points, Closed
		}
		cur = next
	}
	return points, StepLimit
}

// tangent returns the unit direction of the curve at pt, the cross
// product of the two surface normals.
func (t *Tracer) tangent(pt Point) (v3.Vec, [4]v3.Vec) {
	pu := t.p.EvaluateDerivative(pt.P.I, pt.P.J, pt.P.UV.X, pt.P.UV.Y, kernel.AxisU)
	pv := t.p.EvaluateDerivative(pt.P.I, pt.P.J, pt.P.UV.X, pt.P.UV.Y, kernel.AxisV)
	qs := t.q.EvaluateDerivative(pt.Q.I, pt.Q.J, pt.Q.UV.X, pt.Q.UV.Y, kernel.AxisU)
	qt := t.q.EvaluateDerivative(pt.Q.I, pt.Q.J, pt.Q.UV.X, pt.Q.UV.Y, kernel.AxisV)

	nP := pu.Cross(pv)
	nQ := qs.MulScalar(-1).Cross(qt.MulScalar(-1))
	return nP.Cross(nQ).Normalize(), [4]v3.Vec{pu, pv, qs, qt}
}

// step advances one point. A stepped guess that no retry converges from
// is accepted as is when it is finite.
func (t *Tracer) step(cur Point, dir float64) (Point, Termination, bool) {
	tan, d := t.tangent(cur)
	tan = tan.MulScalar(dir)
	if !finiteVec(tan) {
		return Point{}, NonFinite, false
	}
	dp, ok := solver.ParamDirection(tan, d[0], d[1])
	if !ok {
		return Point{}, NonFinite, false
	}
	dq, ok := solver.ParamDirection(tan, d[2], d[3])
	if !ok {
		return Point{}, NonFinite, false
	}

	var guess solver.Solution
	var sol solver.Solution
	solved := false
	for retry := 1; retry <= t.params.MaxTries && !solved; retry++ {
		h := 1 / (float64(retry) * t.params.StepDivisor)
		guess = solver.Solution{
			U: cur.P.UV.X + h*dp.X,
			V: cur.P.UV.Y + h*dp.Y,
			S: cur.Q.UV.X + h*dq.X,
			T: cur.Q.UV.Y + h*dq.Y,
		}
		sol, solved = solver.Solve(t.p, cur.P.I, cur.P.J, guess.U, guess.V,
			t.q, cur.Q.I, cur.Q.J, guess.S, guess.T, t.params.Solver)
	}
	if !solved {
		if !finite(guess.U, guess.V, guess.S, guess.T) {
			return Point{}, NonFinite, false
		}
		sol = guess
	}

	next, ok := t.transition(cur, sol)
	if !ok {
		return Point{}, Boundary, false
	}
	return next, 0, true
}

// transition moves every parameter outside [0,1] onto the neighbouring
// patch. It reports false when that patch is outside its grid. A point
// that changed patches is re-solved there; if that fails the wrapped
// parameters are kept.
func (t *Tracer) transition(cur Point, sol solver.Solution) (Point, bool) {
	eps := t.params.Solver.Epsilon
	prows, pcols := t.p.PatchGrid()
	qrows, qcols := t.q.PatchGrid()

	i, u, ok1 := wrap(cur.P.I, sol.U, prows, eps)
	j, v, ok2 := wrap(cur.P.J, sol.V, pcols, eps)
	k, s, ok3 := wrap(cur.Q.I, sol.S, qrows, eps)
	l, tt, ok4 := wrap(cur.Q.J, sol.T, qcols, eps)
	if !(ok1 && ok2 && ok3 && ok4) {
		return Point{}, false
	}

	if i != cur.P.I || j != cur.P.J || k != cur.Q.I || l != cur.Q.J {
		if r, ok := solver.Solve(t.p, i, j, u, v, t.q, k, l, s, tt, t.params.Solver); ok && t.inRange(r.U, r.V, r.S, r.T) {
			u, v, s, tt = r.U, r.V, r.S, r.T
		}
	}
	return t.point(i, j, u, v, k, l, s, tt), true
}

// wrap shifts x by whole patches until it lies in [0,1] up to eps,
// moving idx along. It reports false once idx leaves [0,n).
func wrap(idx int, x float64, n int, eps float64) (int, float64, bool) {
	for x < -eps {
		idx--
		x++
		if idx < 0 {
			return idx, x, false
		}
	}
	for x > 1+eps {
		idx++
		x--
		if idx >= n {
			return idx, x, false
		}
	}
	return idx, x, true
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func finiteVec(a v3.Vec) bool {
	return finite(a.X, a.Y, a.Z)
}
