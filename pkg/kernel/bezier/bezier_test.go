package bezier

import (
	"math"
	"testing"

	"github.com/chazu/surftrim/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewRejectsBadNets(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"too small", 3, 4},
		{"not 3n+1 rows", 5, 4},
		{"not 3n+1 cols", 4, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := make(kernel.Net, tt.rows)
			for r := range net {
				net[r] = make([]v3.Vec, tt.cols)
			}
			if _, err := New(net); err == nil {
				t.Errorf("New(%dx%d) succeeded, want error", tt.rows, tt.cols)
			}
		})
	}
}

func TestSharedBoundaries(t *testing.T) {
	net, err := kernel.CylinderNet(v3.Vec{}, 1, 2, 2, 3, kernel.C0)
	if err != nil {
		t.Fatal(err)
	}
	s := MustNew(net)
	rows, cols := s.PatchGrid()
	if rows != 2 || cols != 3 {
		t.Fatalf("PatchGrid() = %d, %d, want 2, 3", rows, cols)
	}

	eq := cmpopts.EquateApprox(0, 1e-12)
	for _, w := range []float64{0, 0.3, 0.7, 1} {
		// across u: patch (0,j) at u=1 meets patch (1,j) at u=0
		a, b := s.EvaluatePoint(0, 1, 1, w), s.EvaluatePoint(1, 1, 0, w)
		if diff := cmp.Diff(a, b, eq); diff != "" {
			t.Errorf("u boundary at v=%g (-upper +lower):\n%s", w, diff)
		}
		// across v
		a, b = s.EvaluatePoint(1, 0, w, 1), s.EvaluatePoint(1, 1, w, 0)
		if diff := cmp.Diff(a, b, eq); diff != "" {
			t.Errorf("v boundary at u=%g (-left +right):\n%s", w, diff)
		}
	}
}

func TestPlaneIsExactAndLinear(t *testing.T) {
	net, err := kernel.PlaneNet(v3.Vec{}, v3.Vec{X: 2}, v3.Vec{Y: 3}, 2, 3, kernel.C0)
	if err != nil {
		t.Fatal(err)
	}
	s := MustNew(net)
	eq := cmpopts.EquateApprox(0, 1e-12)

	got := s.EvaluatePoint(1, 2, 0.5, 0.25)
	want := v3.Vec{X: 1.5, Y: 2.25}
	if diff := cmp.Diff(want, got, eq); diff != "" {
		t.Errorf("EvaluatePoint mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v3.Vec{X: 1}, s.EvaluateDerivative(0, 0, 0.4, 0.6, kernel.AxisU), eq); diff != "" {
		t.Errorf("∂/∂u mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v3.Vec{Y: 1}, s.EvaluateDerivative(0, 0, 0.4, 0.6, kernel.AxisV), eq); diff != "" {
		t.Errorf("∂/∂v mismatch (-want +got):\n%s", diff)
	}
}

func TestCylinderStaysNearRadius(t *testing.T) {
	const radius = 1.5
	net, err := kernel.CylinderNet(v3.Vec{}, radius, 1, 1, 4, kernel.C0)
	if err != nil {
		t.Fatal(err)
	}
	s := MustNew(net)
	for j := range 4 {
		for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
			p := s.EvaluatePoint(0, j, 0.5, v)
			// four-arc Bézier circles deviate by under 0.03%
			if r := math.Hypot(p.X, p.Y); math.Abs(r-radius)/radius > 3e-4 {
				t.Errorf("patch %d at v=%g has radius %g, want about %g", j, v, r, radius)
			}
		}
	}
}
