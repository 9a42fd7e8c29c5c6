package solver

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"
)

// pseudoInverse returns the Moore–Penrose pseudo-inverse of a. Singular
// values below max(m,n)·σmax·2⁻⁵² are treated as zero. It reports false
// when a has a non-finite entry or the factorization fails.
func pseudoInverse(a *mat.Dense) (*mat.Dense, bool) {
	m, n := a.Dims()
	for r := range m {
		for c := range n {
			if x := a.At(r, c); math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, false
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	tol := float64(max(m, n)) * values[0] * 0x1p-52
	inv := make([]float64, len(values))
	for k, s := range values {
		if s > tol {
			inv[k] = 1 / s
		}
	}

	// a⁺ = V · Σ⁺ · Uᵀ
	var vs, out mat.Dense
	vs.Mul(&v, mat.NewDiagDense(len(inv), inv))
	out.Mul(&vs, u.T())
	return &out, true
}

// ParamDirection expresses the 3D direction d in the tangent plane spanned
// by du and dv, returning the least-squares (Δu, Δv) with du·Δu + dv·Δv ≈ d.
func ParamDirection(d, du, dv v3.Vec) (v2.Vec, bool) {
	a := mat.NewDense(3, 2, []float64{
		du.X, dv.X,
		du.Y, dv.Y,
		du.Z, dv.Z,
	})
	pinv, ok := pseudoInverse(a)
	if !ok {
		return v2.Vec{}, false
	}
	var x mat.VecDense
	x.MulVec(pinv, mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))
	return v2.Vec{X: x.AtVec(0), Y: x.AtVec(1)}, true
}

// newtonStep returns x − J⁺·r and the L1 norm of the step.
func newtonStep(x []float64, j *mat.Dense, r []float64) ([]float64, float64, bool) {
	pinv, ok := pseudoInverse(j)
	if !ok {
		return nil, 0, false
	}
	var step mat.VecDense
	step.MulVec(pinv, mat.NewVecDense(len(r), r))

	next := make([]float64, len(x))
	var norm float64
	for k := range x {
		s := step.AtVec(k)
		next[k] = x[k] - s
		norm += math.Abs(s)
	}
	return next, norm, true
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
