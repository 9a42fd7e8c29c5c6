package kernel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ Surface = (*Grid)(nil)

// Grid is a rectangular grid of patches implementing Surface. Surface
// variants embed it and differ only in how they derive patches from their
// control nets.
type Grid struct {
	patches [][]Patch
}

// NewGrid wraps a rows × cols patch matrix. The slice is owned by the grid
// afterwards.
func NewGrid(patches [][]Patch) (*Grid, error) {
	if len(patches) == 0 || len(patches[0]) == 0 {
		return nil, fmt.Errorf("kernel: empty patch grid")
	}
	cols := len(patches[0])
	for i, row := range patches {
		if len(row) != cols {
			return nil, fmt.Errorf("kernel: patch row %d has %d patches, want %d", i, len(row), cols)
		}
	}
	return &Grid{patches: patches}, nil
}

// PatchGrid returns the grid extents.
func (g *Grid) PatchGrid() (rows, cols int) {
	if len(g.patches) == 0 {
		return 0, 0
	}
	return len(g.patches), len(g.patches[0])
}

// Patch returns patch (i,j).
func (g *Grid) Patch(i, j int) *Patch {
	return &g.patches[i][j]
}

// EvaluatePoint evaluates patch (i,j) at (u,v).
func (g *Grid) EvaluatePoint(i, j int, u, v float64) v3.Vec {
	return g.patches[i][j].EvaluatePoint(u, v)
}

// EvaluateDerivative evaluates the derivative of patch (i,j) at (u,v).
func (g *Grid) EvaluateDerivative(i, j int, u, v float64, axis Axis) v3.Vec {
	return g.patches[i][j].EvaluateDerivative(u, v, axis)
}

// Net is a control net: Net[r][c] with r along u and c along v.
type Net [][]v3.Vec

// Dims returns the net's row and column counts.
func (n Net) Dims() (rows, cols int) {
	if len(n) == 0 {
		return 0, 0
	}
	return len(n), len(n[0])
}

// CheckRect returns an error unless every row has the same length.
func (n Net) CheckRect() error {
	if len(n) == 0 || len(n[0]) == 0 {
		return fmt.Errorf("kernel: empty control net")
	}
	for r, row := range n {
		if len(row) != len(n[0]) {
			return fmt.Errorf("kernel: control net row %d has %d points, want %d", r, len(row), len(n[0]))
		}
	}
	return nil
}
