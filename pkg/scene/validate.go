package scene

import (
	"fmt"
	"math"

	"github.com/chazu/surftrim/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ValidationSeverity indicates whether a validation finding blocks
// evaluation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // "surface a", "trim t", or empty for scene-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// HasErrors reports whether any finding is error-severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks the scene without building anything and returns every
// finding. An empty slice means the scene can be evaluated.
func Validate(sc *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateOrder(sc)...)
	for _, name := range sc.Order {
		if def, ok := sc.Surfaces[name]; ok {
			errs = append(errs, validateSurface(def)...)
		}
	}
	errs = append(errs, validateTrims(sc)...)
	errs = append(errs, validateView(sc.View)...)
	return errs
}

func validateOrder(sc *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(sc.Order))
	for _, name := range sc.Order {
		if _, ok := sc.Surfaces[name]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("surface order lists unknown surface %q", name),
				Severity: SeverityError,
			})
		}
		seen[name] = true
	}
	for name := range sc.Surfaces {
		if !seen[name] {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("surface %q is missing from the surface order", name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validateSurface(d *SurfaceDef) []ValidationError {
	var errs []ValidationError
	subject := "surface " + d.Name
	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			Subject:  subject,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	if d.Name == "" {
		subject = "surface"
		fail("surface has an empty name")
	}
	if d.Continuity != kernel.C0 && d.Continuity != kernel.C2 {
		fail("unknown continuity %v", d.Continuity)
	}

	switch d.Layout {
	case LayoutPlane, LayoutCylinder:
		if d.Rows < 1 || d.Cols < 1 {
			fail("patch grid %dx%d must be at least 1x1", d.Rows, d.Cols)
		}
		if !finiteVec(d.Origin) {
			fail("origin %v is not finite", d.Origin)
		}
	case LayoutNet:
	default:
		fail("unknown layout %v", d.Layout)
	}

	switch d.Layout {
	case LayoutPlane:
		if !finiteVec(d.UAxis) || !finiteVec(d.VAxis) {
			fail("plane axes must be finite")
		} else if d.UAxis.Cross(d.VAxis).Length() == 0 {
			fail("plane axes %v and %v do not span a plane", d.UAxis, d.VAxis)
		}
	case LayoutCylinder:
		if !(d.Radius > 0) || math.IsInf(d.Radius, 0) {
			fail("cylinder radius %g must be positive", d.Radius)
		}
		if !(d.Height > 0) || math.IsInf(d.Height, 0) {
			fail("cylinder height %g must be positive", d.Height)
		}
	case LayoutNet:
		for _, msg := range validateNet(d.Net, d.Continuity) {
			fail("%s", msg)
		}
	}
	return errs
}

func validateNet(net kernel.Net, c kernel.Continuity) []string {
	if err := net.CheckRect(); err != nil {
		return []string{err.Error()}
	}
	var msgs []string
	rows, cols := net.Dims()
	switch c {
	case kernel.C0:
		if rows < 4 || cols < 4 || (rows-1)%3 != 0 || (cols-1)%3 != 0 {
			msgs = append(msgs, fmt.Sprintf("c0 control net is %dx%d, want (3n+1)x(3m+1)", rows, cols))
		}
	case kernel.C2:
		if rows < 4 || cols < 4 {
			msgs = append(msgs, fmt.Sprintf("c2 de Boor net is %dx%d, want at least 4x4", rows, cols))
		}
	}
	for r, row := range net {
		for col, p := range row {
			if !finiteVec(p) {
				msgs = append(msgs, fmt.Sprintf("control point [%d][%d] %v is not finite", r, col, p))
			}
		}
	}
	return msgs
}

func validateTrims(sc *Scene) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool, len(sc.Trims))
	for _, t := range sc.Trims {
		subject := "trim " + t.Name
		add := func(sev ValidationSeverity, format string, args ...any) {
			errs = append(errs, ValidationError{
				Subject:  subject,
				Message:  fmt.Sprintf(format, args...),
				Severity: sev,
			})
		}

		if t.Name == "" {
			subject = "trim"
			add(SeverityError, "trim has an empty name")
		} else if names[t.Name] {
			add(SeverityError, "duplicate trim name")
		}
		names[t.Name] = true

		for _, ref := range []string{t.A, t.B} {
			if _, ok := sc.Surfaces[ref]; !ok {
				add(SeverityError, "references unknown surface %q", ref)
			}
		}
		if t.A == t.B {
			add(SeverityError, "trims surface %q against itself", t.A)
		}
		if len(t.Seeds) == 0 {
			add(SeverityWarning, "has no seeds and will produce no curve")
		}
		for n, s := range t.Seeds {
			if !finite(s.X, s.Y) {
				add(SeverityError, "seed %d %v is not finite", n, s)
			}
		}
	}
	return errs
}

func validateView(v View) []ValidationError {
	var errs []ValidationError
	if v.Scale == 0 || !finite(v.Scale) {
		errs = append(errs, ValidationError{
			Subject:  "view",
			Message:  fmt.Sprintf("scale %g must be finite and non-zero", v.Scale),
			Severity: SeverityError,
		})
	}
	if !finiteVec(v.Translate) || !finiteVec(v.Rotate) {
		errs = append(errs, ValidationError{
			Subject:  "view",
			Message:  "translation and rotation must be finite",
			Severity: SeverityError,
		})
	}
	return errs
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func finiteVec(v v3.Vec) bool {
	return finite(v.X, v.Y, v.Z)
}
