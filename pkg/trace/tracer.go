// Package trace follows the intersection curve of two patch-grid surfaces
// from a picked seed point.
//
// A trace seeks a first intersection point near the pick, then marches
// along the curve tangent in both directions, re-solving for coincidence
// at every step and moving between patches whenever a parameter leaves
// [0,1]. Numeric failures never escape: they end the affected direction,
// or for seeking, the trace of that one pick.
package trace

import (
	"log/slog"
	"slices"

	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Tracer traces curves between two fixed surfaces.
type Tracer struct {
	p, q     kernel.Surface
	params   Params
	toObject sdf.M44
	log      *slog.Logger
}

// New returns a tracer for the intersection of p and q. Picks are taken
// in object space until SetScreenToObject is called.
func New(p, q kernel.Surface, params Params) (*Tracer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Tracer{
		p:        p,
		q:        q,
		params:   params,
		toObject: sdf.Identity3d(),
		log:      params.logger(),
	}, nil
}

// SetScreenToObject sets the transform applied to picks before seeking.
func (t *Tracer) SetScreenToObject(m sdf.M44) {
	t.toObject = m
}

// toQuery maps a screen pick onto the object-space xy plane the projector
// works in.
func (t *Tracer) toQuery(pick v2.Vec) v2.Vec {
	o := t.toObject.MulPosition(v3.Vec{X: pick.X, Y: pick.Y})
	return v2.Vec{X: o.X, Y: o.Y}
}

// Trace seeks a seed near pick and marches from it in both directions.
// A failed seek returns a *SeekError.
func (t *Tracer) Trace(pick v2.Vec) (*Run, error) {
	seed, attempts, err := t.Seek(pick)
	if err != nil {
		t.log.Warn("seek failed", "pick", pick, "attempts", attempts)
		return nil, err
	}

	run := &Run{Seed: seed, Attempts: attempts}
	forward, fterm := t.march(seed, 1)
	run.Forward = fterm
	t.log.Debug("direction terminated", "direction", "forward", "reason", fterm, "points", len(forward))
	if fterm == Closed {
		run.Backward = Closed
		run.close(forward)
		return run, nil
	}

	backward, bterm := t.march(seed, -1)
	run.Backward = bterm
	t.log.Debug("direction terminated", "direction", "backward", "reason", bterm, "points", len(backward))
	slices.Reverse(backward)
	if bterm == Closed {
		run.close(backward)
		return run, nil
	}

	run.Points = make([]Point, 0, len(backward)+1+len(forward))
	run.Points = append(run.Points, backward...)
	run.Points = append(run.Points, seed)
	run.Points = append(run.Points, forward...)
	return run, nil
}

// close makes the run the loop seed, loop..., seed.
func (r *Run) close(loop []Point) {
	r.Closed = true
	r.Points = make([]Point, 0, len(loop)+2)
	r.Points = append(r.Points, r.Seed)
	r.Points = append(r.Points, loop...)
	r.Points = append(r.Points, r.Seed)
}

// point assembles a curve point; the position is taken on p.
func (t *Tracer) point(i, j int, u, v float64, k, l int, s, tt float64) Point {
	return Point{
		P:        ParamPoint{I: i, J: j, UV: v2.Vec{X: u, Y: v}},
		Q:        ParamPoint{I: k, J: l, UV: v2.Vec{X: s, Y: tt}},
		Position: t.p.EvaluatePoint(i, j, u, v),
	}
}

func (t *Tracer) inRange(xs ...float64) bool {
	eps := t.params.Solver.Epsilon
	for _, x := range xs {
		if !(x >= -eps && x <= 1+eps) {
			return false
		}
	}
	return true
}
