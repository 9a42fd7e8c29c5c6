package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Comments and whitespace
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	result := newTestApp(t).Evaluate(";; just a comment\n; another\n")
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(result.Meshes))
	}
}

func TestE2EWhitespaceOnly(t *testing.T) {
	result := newTestApp(t).Evaluate("  \n\t ")
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// 2. Validation errors and warnings
// ---------------------------------------------------------------------------

func TestE2EValidationErrorStopsPipeline(t *testing.T) {
	result := newTestApp(t).Evaluate(`(defsurface "flat" (plane :u (vec3 1 0 0) :v (vec3 2 0 0)))`)
	if len(result.Errors) == 0 {
		t.Fatal("expected a validation error for collinear plane axes")
	}
	if !strings.Contains(result.Errors[0].Message, "flat") {
		t.Errorf("error %q does not name the surface", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(result.Meshes))
	}
}

func TestE2ETrimUnknownSurfaceByName(t *testing.T) {
	result := newTestApp(t).Evaluate(`
(defsurface "a" (plane))
(deftrim "t" (surface "a") (surface "b"))
`)
	if len(result.Errors) == 0 {
		t.Fatal("expected error for unknown surface")
	}
}

func TestE2ETrimSameSurface(t *testing.T) {
	result := newTestApp(t).Evaluate(`
(def a (defsurface "a" (plane)))
(deftrim "t" a a :seeds (list (vec2 0.5 0.5)))
`)
	if len(result.Errors) == 0 {
		t.Fatal("expected validation error for a trim of a surface with itself")
	}
}

func TestE2ETrimWithoutSeedsWarns(t *testing.T) {
	result := newTestApp(t).Evaluate(`
(defsurface "a" (plane))
(defsurface "b" (plane :origin (vec3 0.5 0 -0.5) :u (vec3 0 1 0) :v (vec3 0 0 1)))
(deftrim "t" (surface "a") (surface "b"))
`)
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for a trim without seeds")
	}
	if len(result.Curves) != 1 || len(result.Curves[0].Points) != 0 {
		t.Errorf("curves = %+v, want one empty curve", result.Curves)
	}
}

// ---------------------------------------------------------------------------
// 3. Seeds that find nothing
// ---------------------------------------------------------------------------

func TestE2EParallelSurfacesReportSeedFailure(t *testing.T) {
	result := newTestApp(t).Evaluate(`
(defsurface "low" (plane))
(defsurface "high" (plane :origin (vec3 0 0 1)))
(deftrim "none" (surface "low") (surface "high") :seeds (list (vec2 0.5 0.5)))
`)
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if len(result.Curves) != 1 {
		t.Fatalf("expected 1 curve, got %d", len(result.Curves))
	}
	seeds := result.Curves[0].Seeds
	if len(seeds) != 1 || seeds[0].OK || seeds[0].Code != "NoParametrizationFound" {
		t.Errorf("seeds = %+v, want one NoParametrizationFound", seeds)
	}
	if seeds[0].Attempts != 10 {
		t.Errorf("Attempts = %d, want 10", seeds[0].Attempts)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w.Message, "NoParametrizationFound") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v do not report the failed seed", result.Warnings)
	}
}

// ---------------------------------------------------------------------------
// 4. View transform
// ---------------------------------------------------------------------------

func TestE2EViewMapsSeeds(t *testing.T) {
	// With the view scaled by 100, the screen pick (50, 50) lands on
	// object (0.5, 0.5).
	result := newTestApp(t).Evaluate(`
(view :scale 100)
(defsurface "a" (plane))
(defsurface "b" (plane :origin (vec3 0.5 0 -0.5) :u (vec3 0 1 0) :v (vec3 0 0 1)))
(deftrim "t" (surface "a") (surface "b") :seeds (list (vec2 50 50)))
`)
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	c := result.Curves[0]
	if len(c.Seeds) != 1 || !c.Seeds[0].OK {
		t.Fatalf("seeds = %+v, want one successful seed", c.Seeds)
	}
	if len(c.Points) == 0 {
		t.Fatal("expected curve points")
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid evaluation: no panics.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	app := newTestApp(t)
	sources := []string{
		`(defsurface "a" (plane))`,
		`(defsurface "b" (cylinder :radius 2))`,
		`(+ 1 2)`,
		``,
		`(defsurface "c" (plane :rows 3 :cols 2) :continuity :c2)`,
		`(defsurface "d"`,
		`(surface "missing")`,
	}
	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	var sb strings.Builder
	for i := range len(colorPalette) + 2 {
		sb.WriteString(`(defsurface "s`)
		sb.WriteByte(byte('a' + i))
		sb.WriteString(`" (plane))` + "\n")
	}
	result := newTestApp(t).Evaluate(sb.String())
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if len(result.Meshes) != len(colorPalette)+2 {
		t.Fatalf("expected %d meshes, got %d", len(colorPalette)+2, len(result.Meshes))
	}
	if result.Meshes[0].Color != result.Meshes[len(colorPalette)].Color {
		t.Error("palette should wrap around")
	}
}
