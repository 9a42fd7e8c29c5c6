// Package bezier implements kernel.Surface for C0 piecewise cubic Bézier
// surfaces. Neighbouring patches share their boundary row or column of
// control points.
package bezier

import (
	"fmt"

	"github.com/chazu/surftrim/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Surface = (*Surface)(nil)

// Surface is a C0 Bézier patch grid built from a (3·rows+1) × (3·cols+1)
// control net.
type Surface struct {
	*kernel.Grid
}

// New builds a surface from its control net.
func New(net kernel.Net) (*Surface, error) {
	if err := net.CheckRect(); err != nil {
		return nil, fmt.Errorf("bezier: %w", err)
	}
	nr, nc := net.Dims()
	if nr < 4 || nc < 4 || (nr-1)%3 != 0 || (nc-1)%3 != 0 {
		return nil, fmt.Errorf("bezier: control net %dx%d is not (3n+1)x(3m+1)", nr, nc)
	}
	rows, cols := (nr-1)/3, (nc-1)/3

	patches := make([][]kernel.Patch, rows)
	for i := range rows {
		patches[i] = make([]kernel.Patch, cols)
		for j := range cols {
			p := &patches[i][j]
			for r := range 4 {
				for c := range 4 {
					p.Points[r][c] = net[3*i+r][3*j+c]
				}
			}
		}
	}

	g, err := kernel.NewGrid(patches)
	if err != nil {
		return nil, fmt.Errorf("bezier: %w", err)
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
