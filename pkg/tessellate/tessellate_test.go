package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/chazu/surftrim/pkg/kernel/bezier"
	"github.com/chazu/surftrim/pkg/scene"
	"github.com/chazu/surftrim/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// planeDef describes a flat surface in the z=0 plane.
func planeDef(name string, rows, cols int) *scene.SurfaceDef {
	return &scene.SurfaceDef{
		Name:   name,
		Layout: scene.LayoutPlane,
		Rows:   rows, Cols: cols,
		UAxis: v3.Vec{X: 1}, VAxis: v3.Vec{Y: 1},
	}
}

func TestSinglePatch(t *testing.T) {
	net, err := kernel.PlaneNet(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1}, 1, 1, kernel.C0)
	if err != nil {
		t.Fatal(err)
	}
	m := tessellate.Surface("floor", bezier.MustNew(net), 4)

	if m.SurfaceName != "floor" {
		t.Errorf("SurfaceName = %q, want floor", m.SurfaceName)
	}
	if got := m.VertexCount(); got != 25 {
		t.Errorf("VertexCount() = %d, want 25", got)
	}
	if got := m.TriangleCount(); got != 32 {
		t.Errorf("TriangleCount() = %d, want 32", got)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("len(Normals) = %d, want %d", len(m.Normals), len(m.Vertices))
	}
	for k := 0; k < len(m.Normals); k += 3 {
		if m.Normals[k+2] != 1 {
			t.Fatalf("normal %d = (%g, %g, %g), want +z", k/3, m.Normals[k], m.Normals[k+1], m.Normals[k+2])
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d out of range (%d vertices)", idx, m.VertexCount())
		}
	}
}

func TestPatchGridCounts(t *testing.T) {
	net, err := kernel.PlaneNet(v3.Vec{}, v3.Vec{X: 2}, v3.Vec{Y: 3}, 2, 3, kernel.C2)
	if err != nil {
		t.Fatal(err)
	}
	s, err := (&scene.SurfaceDef{Layout: scene.LayoutNet, Continuity: kernel.C2, Net: net}).Build()
	if err != nil {
		t.Fatal(err)
	}
	m := tessellate.Surface("grid", s, 2)
	if got, want := m.VertexCount(), 6*9; got != want {
		t.Errorf("VertexCount() = %d, want %d", got, want)
	}
	if got, want := m.TriangleCount(), 6*8; got != want {
		t.Errorf("TriangleCount() = %d, want %d", got, want)
	}
}

func TestCylinderVerticesOnSurface(t *testing.T) {
	const radius = 1.5
	net, err := kernel.CylinderNet(v3.Vec{}, radius, 2, 1, 4, kernel.C0)
	if err != nil {
		t.Fatal(err)
	}
	m := tessellate.Surface("tube", bezier.MustNew(net), 6)
	for k := 0; k < len(m.Vertices); k += 3 {
		r := math.Hypot(float64(m.Vertices[k]), float64(m.Vertices[k+1]))
		if math.Abs(r-radius) > 1e-3*radius {
			t.Fatalf("vertex %d radius = %g, want %g", k/3, r, radius)
		}
	}
}

func TestTessellateScene(t *testing.T) {
	sc := scene.New()
	for _, def := range []*scene.SurfaceDef{planeDef("b", 1, 1), planeDef("a", 2, 1)} {
		if err := sc.AddSurface(def); err != nil {
			t.Fatal(err)
		}
	}

	meshes, err := tessellate.Tessellate(sc, 3)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].SurfaceName != "b" || meshes[1].SurfaceName != "a" {
		t.Errorf("mesh order = %q, %q, want declaration order b, a", meshes[0].SurfaceName, meshes[1].SurfaceName)
	}
	if got := meshes[1].TriangleCount(); got != 2*18 {
		t.Errorf("second mesh TriangleCount() = %d, want 36", got)
	}
}

func TestEmptyScene(t *testing.T) {
	meshes, err := tessellate.Tessellate(scene.New(), tessellate.DefaultDivisions)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("expected 0 meshes, got %d", len(meshes))
	}
}

func TestTessellateErrors(t *testing.T) {
	sc := scene.New()
	if _, err := tessellate.Tessellate(sc, 0); err == nil {
		t.Error("Tessellate with 0 divisions succeeded, want error")
	}

	bad := planeDef("bad", 0, 1)
	if err := sc.AddSurface(bad); err != nil {
		t.Fatal(err)
	}
	if _, err := tessellate.Tessellate(sc, 2); err == nil {
		t.Error("Tessellate with a 0-row plane succeeded, want error")
	}
}
