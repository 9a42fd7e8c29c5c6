package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/chazu/surftrim/pkg/scene"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: seed-row -> seed_row
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. ; line comments become // comments.
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a v2.Vec, used for seeds.
type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpLayout carries the geometry produced by `plane`, `cylinder` or `net`
// until `defsurface` names it.
type sexpLayout struct {
	def scene.SurfaceDef
}

func (l *sexpLayout) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %dx%d)", l.def.Layout, l.def.Rows, l.def.Cols)
}
func (l *sexpLayout) Type() *zygo.RegisteredType { return nil }

// sexpSurfaceRef names a defined surface.
type sexpSurfaceRef struct {
	name string
}

func (r *sexpSurfaceRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(surface %q)", r.name)
}
func (r *sexpSurfaceRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected whole number, got %T (%s)", s, s.SexpString(nil))
}

// toContinuity converts :c0 or :c2 to a kernel.Continuity.
func toContinuity(s zygo.Sexp) (kernel.Continuity, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected continuity keyword (:c0, :c2): %w", err)
	}
	switch name {
	case "c0":
		return kernel.C0, nil
	case "c2":
		return kernel.C2, nil
	}
	return 0, fmt.Errorf("invalid continuity %q, expected c0 or c2", name)
}

// toVec2 extracts a v2.Vec from a sexpVec2.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toSurfaceRef extracts a surface name from a sexpSurfaceRef.
func toSurfaceRef(s zygo.Sexp) (string, error) {
	if r, ok := s.(*sexpSurfaceRef); ok {
		return r.name, nil
	}
	return "", fmt.Errorf("expected surface reference, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Keyword value readers
// ---------------------------------------------------------------------------

// kwFloat stores keyword key into dst when present.
func kwFloat(pa kwArgs, fn, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = f
	return nil
}

// kwInt stores keyword key into dst when present.
func kwInt(pa kwArgs, fn, key string, dst *int) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = n
	return nil
}

// kwVec3 stores keyword key into dst when present.
func kwVec3(pa kwArgs, fn, key string, dst *v3.Vec) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = vec
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtinNames lists every function registerBuiltins installs. None of them
// may collide with a sandbox builtin: zygomys resolves its own builtins
// before globals added with AddFunction.
var builtinNames = []string{
	"vec2", "vec3", "plane", "cylinder", "net",
	"defsurface", "surface", "deftrim", "view",
}

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins populate sc during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	// -----------------------------------------------------------------------
	// (vec2 0.5 0.25)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (plane :origin (vec3 0 0 0) :u (vec3 1 0 0) :v (vec3 0 1 0) :rows 2 :cols 2)
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		def := scene.SurfaceDef{
			Layout: scene.LayoutPlane,
			Rows:   1, Cols: 1,
			UAxis: v3.Vec{X: 1}, VAxis: v3.Vec{Y: 1},
		}
		err := firstErr(
			kwVec3(pa, "plane", "origin", &def.Origin),
			kwVec3(pa, "plane", "u", &def.UAxis),
			kwVec3(pa, "plane", "v", &def.VAxis),
			kwInt(pa, "plane", "rows", &def.Rows),
			kwInt(pa, "plane", "cols", &def.Cols),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpLayout{def: def}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :base (vec3 0 0 0) :radius 1 :height 2 :rows 1 :cols 4)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		def := scene.SurfaceDef{
			Layout: scene.LayoutCylinder,
			Rows:   1, Cols: 4,
			Radius: 1, Height: 1,
		}
		err := firstErr(
			kwVec3(pa, "cylinder", "base", &def.Origin),
			kwFloat(pa, "cylinder", "radius", &def.Radius),
			kwFloat(pa, "cylinder", "height", &def.Height),
			kwInt(pa, "cylinder", "rows", &def.Rows),
			kwInt(pa, "cylinder", "cols", &def.Cols),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpLayout{def: def}, nil
	})

	// -----------------------------------------------------------------------
	// (net (list (list (vec3 ...) ...) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("net", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("net requires a single list of rows, got %d arguments", len(args))
		}
		rows, err := sexpListToSlice(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("net: %w", err)
		}
		net := make(kernel.Net, len(rows))
		for r, row := range rows {
			points, err := sexpListToSlice(row)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("net: row %d: %w", r, err)
			}
			net[r] = make([]v3.Vec, len(points))
			for c, p := range points {
				vec, err := toVec3(p)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("net: point [%d][%d]: %w", r, c, err)
				}
				net[r][c] = vec
			}
		}
		def := scene.SurfaceDef{Layout: scene.LayoutNet, Net: net}
		def.Rows, def.Cols = net.Dims()
		return &sexpLayout{def: def}, nil
	})

	// -----------------------------------------------------------------------
	// (defsurface "name" (plane ...) :continuity :c2)
	// -----------------------------------------------------------------------
	env.AddFunction("defsurface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("defsurface requires a name and a layout expression")
		}

		surfName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface: name: %w", err)
		}
		layout, ok := pa.positional[1].(*sexpLayout)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defsurface: expected plane, cylinder or net expression, got %T", pa.positional[1])
		}

		def := layout.def
		def.Name = surfName
		if v, ok := pa.kw["continuity"]; ok {
			c, err := toContinuity(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defsurface: continuity: %w", err)
			}
			def.Continuity = c
		}
		if err := sc.AddSurface(&def); err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface: %w", err)
		}
		return &sexpSurfaceRef{name: surfName}, nil
	})

	// -----------------------------------------------------------------------
	// (surface "name")
	// -----------------------------------------------------------------------
	env.AddFunction("surface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("surface requires a name argument")
		}
		surfName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: name: %w", err)
		}
		if _, ok := sc.Surface(surfName); !ok {
			return zygo.SexpNull, fmt.Errorf("surface: no surface named %q", surfName)
		}
		return &sexpSurfaceRef{name: surfName}, nil
	})

	// -----------------------------------------------------------------------
	// (deftrim "name" (surface "a") (surface "b") :seeds (list (vec2 0.5 0.5)))
	// -----------------------------------------------------------------------
	env.AddFunction("deftrim", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("deftrim requires a name and two surface references")
		}

		trimName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deftrim: name: %w", err)
		}
		a, err := toSurfaceRef(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deftrim: first surface: %w", err)
		}
		b, err := toSurfaceRef(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deftrim: second surface: %w", err)
		}

		td := &scene.TrimDef{Name: trimName, A: a, B: b}
		if v, ok := pa.kw["seeds"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("deftrim: seeds: %w", err)
			}
			for _, item := range items {
				seed, err := toVec2(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("deftrim: seed entry: %w", err)
				}
				td.Seeds = append(td.Seeds, seed)
			}
		}
		sc.AddTrim(td)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (view :translate (vec3 0 0 0) :rotate (vec3 0 0 45) :scale 100)
	// -----------------------------------------------------------------------
	env.AddFunction("view", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v := sc.View
		err := firstErr(
			kwVec3(pa, "view", "translate", &v.Translate),
			kwVec3(pa, "view", "rotate", &v.Rotate),
			kwFloat(pa, "view", "scale", &v.Scale),
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		sc.View = v
		return zygo.SexpNull, nil
	})
}
