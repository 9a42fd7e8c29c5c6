package main

import (
	"fmt"
	"log/slog"

	"github.com/chazu/surftrim/pkg/config"
	"github.com/chazu/surftrim/pkg/engine"
	"github.com/chazu/surftrim/pkg/scene"
	"github.com/chazu/surftrim/pkg/tessellate"
	"github.com/chazu/surftrim/pkg/trace"
	"github.com/chazu/surftrim/pkg/trim"
)

// colorPalette is a default palette used to assign distinct colors to surfaces.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the scene pipeline: script → scene → meshes and trimming curves.
type App struct {
	engine *engine.Engine
	params trace.Params
	divs   int
	log    *slog.Logger
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices    []float32 `json:"vertices"`
	Normals     []float32 `json:"normals"`
	Indices     []uint32  `json:"indices"`
	SurfaceName string    `json:"surfaceName"`
	Color       string    `json:"color"`
}

// ParamData is one curve point in a surface's parameter space, both local
// to its patch and in global grid coordinates.
type ParamData struct {
	Patch  [2]int     `json:"patch"`
	Local  [2]float64 `json:"local"`
	Global [2]float64 `json:"global"`
}

// SeedData reports how one seed fared.
type SeedData struct {
	Seed     [2]float64 `json:"seed"`
	OK       bool       `json:"ok"`
	Code     string     `json:"code,omitempty"`
	Attempts int        `json:"attempts"`
}

// CurveData is one trimming curve.
type CurveData struct {
	Name       string       `json:"name"`
	SurfaceA   string       `json:"surfaceA"`
	SurfaceB   string       `json:"surfaceB"`
	Points     [][3]float64 `json:"points"`
	ParamA     []ParamData  `json:"paramA"`
	ParamB     []ParamData  `json:"paramB"`
	Seeds      []SeedData   `json:"seeds"`
	ClosedRuns int          `json:"closedRuns"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Curves   []CurveData     `json:"curves"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App from cfg. A nil logger discards diagnostics.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		engine: engine.NewEngine(cfg.EvalTimeout),
		params: cfg.TraceParams(logger),
		divs:   cfg.TessellationDivs,
		log:    logger,
	}
}

// Evaluate takes scene source and returns meshes, curves and diagnostics.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Curves:   []CurveData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a scene.
	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("evaluate", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: Validate. Warnings are reported but do not stop the pipeline.
	findings := scene.Validate(sc)
	for _, f := range findings {
		d := EvalErrorData{Message: f.Error()}
		if f.Severity == scene.SeverityWarning {
			result.Warnings = append(result.Warnings, d)
		} else {
			result.Errors = append(result.Errors, d)
		}
	}
	if scene.HasErrors(findings) {
		return result
	}

	// Step 3: Tessellate every surface.
	meshes, err := tessellate.Tessellate(sc, a.divs)
	if err != nil {
		a.log.Error("tessellate", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices:    m.Vertices,
			Normals:     m.Normals,
			Indices:     m.Indices,
			SurfaceName: m.SurfaceName,
			Color:       colorPalette[i%len(colorPalette)],
		})
	}

	// Step 4: Trace every trim.
	for _, td := range sc.Trims {
		cd, err := a.traceTrim(sc, td)
		if err != nil {
			a.log.Error("trace trim", "trim", td.Name, "error", err)
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
			continue
		}
		for _, s := range cd.Seeds {
			if !s.OK {
				result.Warnings = append(result.Warnings, EvalErrorData{
					Message: fmt.Sprintf("trim %s: seed (%g, %g): %s after %d attempts",
						td.Name, s.Seed[0], s.Seed[1], s.Code, s.Attempts),
				})
			}
		}
		result.Curves = append(result.Curves, cd)
	}

	return result
}

// traceTrim builds both surfaces of td and traces the curve from its seeds.
func (a *App) traceTrim(sc *scene.Scene, td *scene.TrimDef) (CurveData, error) {
	defA, _ := sc.Surface(td.A)
	defB, _ := sc.Surface(td.B)
	p, err := defA.Build()
	if err != nil {
		return CurveData{}, fmt.Errorf("trim %s: %w", td.Name, err)
	}
	q, err := defB.Build()
	if err != nil {
		return CurveData{}, fmt.Errorf("trim %s: %w", td.Name, err)
	}

	curve, err := trim.New(trim.Context{
		P:              p,
		Q:              q,
		Params:         a.params,
		ScreenToObject: sc.View.ScreenToObject(),
		Logger:         a.log.With("trim", td.Name),
	})
	if err != nil {
		return CurveData{}, fmt.Errorf("trim %s: %w", td.Name, err)
	}
	for _, seed := range td.Seeds {
		curve.AddSeed(seed)
	}
	res := curve.Recompute()

	cd := CurveData{
		Name:     td.Name,
		SurfaceA: td.A,
		SurfaceB: td.B,
		Points:   make([][3]float64, len(res.Curve)),
		ParamA:   paramData(res.ParamP),
		ParamB:   paramData(res.ParamQ),
		Seeds:    make([]SeedData, len(res.Seeds)),
	}
	for n, pt := range res.Curve {
		cd.Points[n] = [3]float64{pt.X, pt.Y, pt.Z}
	}
	for n, s := range res.Seeds {
		cd.Seeds[n] = SeedData{
			Seed:     [2]float64{s.Seed.X, s.Seed.Y},
			OK:       s.OK,
			Code:     string(s.Code),
			Attempts: s.Attempts,
		}
	}
	for _, run := range res.Runs {
		if run.Closed {
			cd.ClosedRuns++
		}
	}
	return cd, nil
}

func paramData(pts []trace.ParamPoint) []ParamData {
	out := make([]ParamData, len(pts))
	for n, p := range pts {
		g := p.Global()
		out[n] = ParamData{
			Patch:  [2]int{p.I, p.J},
			Local:  [2]float64{p.UV.X, p.UV.Y},
			Global: [2]float64{g.X, g.Y},
		}
	}
	return out
}
