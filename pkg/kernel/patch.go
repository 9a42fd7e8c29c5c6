package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Axis selects the parametric direction of a partial derivative.
type Axis int

const (
	AxisU Axis = iota
	AxisV
)

func (a Axis) String() string {
	if a == AxisV {
		return "v"
	}
	return "u"
}

// Patch is a bicubic Bézier patch. Points[r][c] is the control point in
// row r (along u) and column c (along v).
type Patch struct {
	Points [4][4]v3.Vec
}

// bernstein returns the cubic Bernstein basis at t.
func bernstein(t float64) [4]float64 {
	s := 1 - t
	return [4]float64{s * s * s, 3 * t * s * s, 3 * t * t * s, t * t * t}
}

// bernsteinDeriv returns the derivative of the cubic Bernstein basis at t.
func bernsteinDeriv(t float64) [4]float64 {
	s := 1 - t
	return [4]float64{
		-3 * s * s,
		3*s*s - 6*t*s,
		6*t*s - 3*t*t,
		3 * t * t,
	}
}

// coefficients returns the 4×4 matrix of one spatial coordinate
// (0 = X, 1 = Y, 2 = Z) of the control points.
func (p *Patch) coefficients(coord int) (m [4][4]float64) {
	for r := range 4 {
		for c := range 4 {
			pt := p.Points[r][c]
			switch coord {
			case 0:
				m[r][c] = pt.X
			case 1:
				m[r][c] = pt.Y
			default:
				m[r][c] = pt.Z
			}
		}
	}
	return m
}

// bilinearForm evaluates buᵗ · m · bv.
func bilinearForm(bu [4]float64, m [4][4]float64, bv [4]float64) float64 {
	var sum float64
	for r := range 4 {
		var row float64
		for c := range 4 {
			row += m[r][c] * bv[c]
		}
		sum += bu[r] * row
	}
	return sum
}

func (p *Patch) evaluate(bu, bv [4]float64) v3.Vec {
	return v3.Vec{
		X: bilinearForm(bu, p.coefficients(0), bv),
		Y: bilinearForm(bu, p.coefficients(1), bv),
		Z: bilinearForm(bu, p.coefficients(2), bv),
	}
}

// EvaluatePoint returns the point of the patch at (u,v). Parameters are not
// clamped to [0,1].
func (p *Patch) EvaluatePoint(u, v float64) v3.Vec {
	return p.evaluate(bernstein(u), bernstein(v))
}

// EvaluateDerivative returns the partial derivative along axis at (u,v).
func (p *Patch) EvaluateDerivative(u, v float64, axis Axis) v3.Vec {
	if axis == AxisV {
		return p.evaluate(bernstein(u), bernsteinDeriv(v))
	}
	return p.evaluate(bernsteinDeriv(u), bernstein(v))
}

// Normal returns the unnormalized normal ∂/∂u × ∂/∂v at (u,v).
func (p *Patch) Normal(u, v float64) v3.Vec {
	du := p.EvaluateDerivative(u, v, AxisU)
	dv := p.EvaluateDerivative(u, v, AxisV)
	return du.Cross(dv)
}
