// Package kernel defines the surface capability interface shared by every
// patch-based surface in surftrim. Implementations (bezier, bspline) build a
// grid of bicubic Bézier patches behind this interface, so the solvers and
// the curve tracer never depend on how a surface was constructed.
package kernel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Continuity names how neighbouring patches of a surface join.
type Continuity int

const (
	C0 Continuity = iota // piecewise cubic Bézier sharing boundary control points
	C2                   // uniform cubic B-spline converted to Bézier patches
)

func (c Continuity) String() string {
	switch c {
	case C0:
		return "c0"
	case C2:
		return "c2"
	default:
		return fmt.Sprintf("Continuity(%d)", int(c))
	}
}

// Surface is the capability interface of a patch grid.
// Patch (i,j) covers the local parameter square [0,1]²; i runs along u
// and j along v.
type Surface interface {
	// PatchGrid returns the patch-grid extents.
	PatchGrid() (rows, cols int)

	// Patch returns patch (i,j). It panics if the index is outside the grid.
	Patch(i, j int) *Patch

	// Evaluation on patch (i,j) at local parameters (u,v).
	EvaluatePoint(i, j int, u, v float64) v3.Vec
	EvaluateDerivative(i, j int, u, v float64, axis Axis) v3.Vec
}

// InGrid reports whether (i,j) addresses a patch of s.
func InGrid(s Surface, i, j int) bool {
	rows, cols := s.PatchGrid()
	return i >= 0 && i < rows && j >= 0 && j < cols
}
