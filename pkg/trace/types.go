package trace

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ParamPoint locates a point on a surface: patch (I,J) and local
// parameters UV in [0,1]².
type ParamPoint struct {
	I, J int
	UV   v2.Vec
}

// Global returns the position in the surface's whole parameter domain,
// where patch (i,j) covers [i,i+1] × [j,j+1].
func (p ParamPoint) Global() v2.Vec {
	return v2.Vec{X: float64(p.I) + p.UV.X, Y: float64(p.J) + p.UV.Y}
}

// Point is one point of the intersection curve: its location on both
// surfaces and in space.
type Point struct {
	P, Q     ParamPoint
	Position v3.Vec
}

// Termination records why a marching direction stopped.
type Termination int

const (
	// Boundary means the curve left one of the patch grids.
	Boundary Termination = iota
	// NonFinite means the tangent or the stepped guess stopped being finite.
	NonFinite
	// Closed means the curve came back to its seed.
	Closed
	// StepLimit means MaxSteps points were marched.
	StepLimit
)

func (t Termination) String() string {
	switch t {
	case Boundary:
		return "boundary"
	case NonFinite:
		return "non-finite"
	case Closed:
		return "closed"
	case StepLimit:
		return "step-limit"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// Run is the curve traced from one pick. Points are ordered from the end
// of the backward march, through the seed, to the end of the forward
// march. A closed run ends with a copy of its seed.
type Run struct {
	Seed     Point
	Points   []Point
	Attempts int
	Closed   bool

	Forward, Backward Termination
}

// Positions returns the run's 3D polyline.
func (r *Run) Positions() []v3.Vec {
	out := make([]v3.Vec, len(r.Points))
	for n, p := range r.Points {
		out[n] = p.Position
	}
	return out
}

// ParamP returns the run's parameter points on the first surface.
func (r *Run) ParamP() []ParamPoint {
	out := make([]ParamPoint, len(r.Points))
	for n, p := range r.Points {
		out[n] = p.P
	}
	return out
}

// ParamQ returns the run's parameter points on the second surface.
func (r *Run) ParamQ() []ParamPoint {
	out := make([]ParamPoint, len(r.Points))
	for n, p := range r.Points {
		out[n] = p.Q
	}
	return out
}
