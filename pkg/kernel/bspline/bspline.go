// Package bspline implements kernel.Surface for C2 uniform bicubic B-spline
// surfaces. The de Boor net is converted once into Bézier patches so that
// evaluation shares the Bernstein evaluator with the C0 variant.
package bspline

import (
	"fmt"

	"github.com/chazu/surftrim/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Surface = (*Surface)(nil)

// basisChange maps four consecutive de Boor points of a uniform cubic
// B-spline segment to the four Bézier points of the same segment.
var basisChange = [4][4]float64{
	{1.0 / 6, 4.0 / 6, 1.0 / 6, 0},
	{0, 4.0 / 6, 2.0 / 6, 0},
	{0, 2.0 / 6, 4.0 / 6, 0},
	{0, 1.0 / 6, 4.0 / 6, 1.0 / 6},
}

// Surface is a C2 patch grid built from a (rows+3) × (cols+3) de Boor net.
type Surface struct {
	*kernel.Grid
}

// New builds a surface from its de Boor net.
func New(net kernel.Net) (*Surface, error) {
	if err := net.CheckRect(); err != nil {
		return nil, fmt.Errorf("bspline: %w", err)
	}
	nr, nc := net.Dims()
	if nr < 4 || nc < 4 {
		return nil, fmt.Errorf("bspline: de Boor net %dx%d must be at least 4x4", nr, nc)
	}
	rows, cols := nr-3, nc-3

	patches := make([][]kernel.Patch, rows)
	for i := range rows {
		patches[i] = make([]kernel.Patch, cols)
		for j := range cols {
			patches[i][j] = toBezier(net, i, j)
		}
	}

	g, err := kernel.NewGrid(patches)
	if err != nil {
		return nil, fmt.Errorf("bspline: %w", err)
	}
	return &Surface{Grid: g}, nil
}

// MustNew is like New but panics on a malformed net.
func MustNew(net kernel.Net) *Surface {
	s, err := New(net)
	if err != nil {
		panic(err)
	}
	return s
}

// toBezier computes B = M·D·Mᵀ for the 4×4 window of the net at (i,j).
func toBezier(net kernel.Net, i, j int) kernel.Patch {
	var rowsDone [4][4]v3.Vec
	for r := range 4 {
		for c := range 4 {
			var sum v3.Vec
			for k := range 4 {
				sum = sum.Add(net[i+k][j+c].MulScalar(basisChange[r][k]))
			}
			rowsDone[r][c] = sum
		}
	}

	var p kernel.Patch
	for r := range 4 {
		for c := range 4 {
			var sum v3.Vec
			for k := range 4 {
				sum = sum.Add(rowsDone[r][k].MulScalar(basisChange[c][k]))
			}
			p.Points[r][c] = sum
		}
	}
	return p
}
