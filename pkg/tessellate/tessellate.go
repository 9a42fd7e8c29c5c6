// Package tessellate samples scene surfaces into triangle meshes for
// display. One mesh is produced per surface.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/chazu/surftrim/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultDivisions is the per-patch sampling density used when none is
// configured.
const DefaultDivisions = 8

// Tessellate builds every surface of sc in declaration order and samples
// each patch on a divs × divs grid. The scene is never mutated.
func Tessellate(sc *scene.Scene, divs int) ([]*kernel.Mesh, error) {
	if sc == nil {
		return nil, nil
	}
	if divs < 1 {
		return nil, fmt.Errorf("tessellate: divisions %d must be at least 1", divs)
	}

	meshes := make([]*kernel.Mesh, 0, len(sc.Order))
	for _, name := range sc.Order {
		def, ok := sc.Surface(name)
		if !ok {
			return nil, fmt.Errorf("tessellate: surface %q listed but not defined", name)
		}
		s, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		meshes = append(meshes, Surface(name, s, divs))
	}
	return meshes, nil
}

// Surface samples every patch of s on a divs × divs grid. Patches do not
// share vertices. Normals come from the patch derivatives; where those are
// degenerate the normal is left at zero.
func Surface(name string, s kernel.Surface, divs int) *kernel.Mesh {
	if divs < 1 {
		divs = 1
	}
	rows, cols := s.PatchGrid()
	side := divs + 1
	perPatch := side * side

	m := &kernel.Mesh{
		Vertices:    make([]float32, 0, 3*perPatch*rows*cols),
		Normals:     make([]float32, 0, 3*perPatch*rows*cols),
		Indices:     make([]uint32, 0, 6*divs*divs*rows*cols),
		SurfaceName: name,
	}

	for i := range rows {
		for j := range cols {
			p := s.Patch(i, j)
			base := uint32(m.VertexCount())
			for a := 0; a <= divs; a++ {
				u := float64(a) / float64(divs)
				for b := 0; b <= divs; b++ {
					v := float64(b) / float64(divs)
					m.Vertices = appendVec(m.Vertices, p.EvaluatePoint(u, v))
					m.Normals = appendVec(m.Normals, unitNormal(p, u, v))
				}
			}
			for a := range divs {
				for b := range divs {
					i00 := base + uint32(a*side+b)
					i10 := i00 + uint32(side)
					i01 := i00 + 1
					i11 := i10 + 1
					m.Indices = append(m.Indices, i00, i10, i11, i11, i01, i00)
				}
			}
		}
	}
	return m
}

func unitNormal(p *kernel.Patch, u, v float64) v3.Vec {
	n := p.Normal(u, v)
	l := n.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

func appendVec(dst []float32, v v3.Vec) []float32 {
	return append(dst, float32(v.X), float32(v.Y), float32(v.Z))
}
