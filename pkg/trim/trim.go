// Package trim keeps the trimming curve between two surfaces up to date.
//
// A Curve owns a list of seed picks. Recompute traces every seed from
// scratch and publishes the combined result; readers always see either
// the previous result or the new one, never a partial one.
package trim

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/chazu/surftrim/pkg/trace"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Code classifies a failed seed. Successful seeds carry the empty code.
type Code string

const NoParametrizationFound Code = "NoParametrizationFound"

// Context is everything a Curve needs from its host.
type Context struct {
	P, Q   kernel.Surface
	Params trace.Params
	// ScreenToObject maps picks into object space. The zero value is
	// replaced by the identity.
	ScreenToObject sdf.M44
	Logger         *slog.Logger
}

// SeedStatus reports how one seed fared in the last recompute.
type SeedStatus struct {
	Seed     v2.Vec
	OK       bool
	Code     Code
	Attempts int
}

// Result is one published recompute.
type Result struct {
	Runs []*trace.Run
	// Curve concatenates the 3D polylines of all runs in seed order.
	Curve []v3.Vec
	// ParamP and ParamQ concatenate the runs' parameter points on each
	// surface, aligned with Curve.
	ParamP, ParamQ []trace.ParamPoint
	Seeds          []SeedStatus
}

// Curve is a trimming curve between two surfaces.
type Curve struct {
	tracer *trace.Tracer
	log    *slog.Logger

	seedMu sync.Mutex
	seeds  []v2.Vec

	resMu  sync.RWMutex
	result *Result
}

// New returns a curve with no seeds and an empty result.
func New(ctx Context) (*Curve, error) {
	if ctx.P == nil || ctx.Q == nil {
		return nil, errors.New("trim: both surfaces are required")
	}
	logger := ctx.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	params := ctx.Params
	if params.Logger == nil {
		params.Logger = logger
	}

	tr, err := trace.New(ctx.P, ctx.Q, params)
	if err != nil {
		return nil, fmt.Errorf("trim: %w", err)
	}
	if ctx.ScreenToObject != (sdf.M44{}) {
		tr.SetScreenToObject(ctx.ScreenToObject)
	}
	return &Curve{tracer: tr, log: logger, result: &Result{}}, nil
}

// AddSeed appends a screen-space pick. It takes effect on the next
// Recompute.
func (c *Curve) AddSeed(pick v2.Vec) {
	c.seedMu.Lock()
	defer c.seedMu.Unlock()
	c.seeds = append(c.seeds, pick)
}

// Seeds returns a copy of the current seeds.
func (c *Curve) Seeds() []v2.Vec {
	c.seedMu.Lock()
	defer c.seedMu.Unlock()
	out := make([]v2.Vec, len(c.seeds))
	copy(out, c.seeds)
	return out
}

// ClearSeeds removes all seeds. The published result is kept until the
// next Recompute.
func (c *Curve) ClearSeeds() {
	c.seedMu.Lock()
	defer c.seedMu.Unlock()
	c.seeds = nil
}

// Result returns the last published result.
func (c *Curve) Result() *Result {
	c.resMu.RLock()
	defer c.resMu.RUnlock()
	return c.result
}

// Recompute traces every seed, publishes the combined result and returns
// it. A seed that cannot be seeded is reported in the result's Seeds and
// does not affect the others.
func (c *Curve) Recompute() *Result {
	seeds := c.Seeds()
	res := &Result{Seeds: make([]SeedStatus, len(seeds))}

	for n, pick := range seeds {
		status := SeedStatus{Seed: pick}
		run, err := c.tracer.Trace(pick)
		var se *trace.SeekError
		switch {
		case errors.As(err, &se):
			status.Code = NoParametrizationFound
			status.Attempts = se.Attempts
		case err != nil:
			// Trace only fails by seeking; keep the seed visible regardless.
			status.Code = NoParametrizationFound
		default:
			status.OK = true
			status.Attempts = run.Attempts
			res.Runs = append(res.Runs, run)
			res.Curve = append(res.Curve, run.Positions()...)
			res.ParamP = append(res.ParamP, run.ParamP()...)
			res.ParamQ = append(res.ParamQ, run.ParamQ()...)
		}
		res.Seeds[n] = status
	}

	c.log.Info("trim recomputed", "seeds", len(seeds), "runs", len(res.Runs), "points", len(res.Curve))

	c.resMu.Lock()
	c.result = res
	c.resMu.Unlock()
	return res
}
