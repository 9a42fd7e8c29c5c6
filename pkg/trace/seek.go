package trace

import (
	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/chazu/surftrim/pkg/solver"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// projections lazily caches one pick's projection onto every patch of a
// surface.
type projections struct {
	s     kernel.Surface
	query v2.Vec
	opts  solver.Options
	cols  int
	done  []bool
	ok    []bool
	res   []solver.Projection
}

func newProjections(s kernel.Surface, query v2.Vec, opts solver.Options) *projections {
	rows, cols := s.PatchGrid()
	n := rows * cols
	return &projections{
		s:     s,
		query: query,
		opts:  opts,
		cols:  cols,
		done:  make([]bool, n),
		ok:    make([]bool, n),
		res:   make([]solver.Projection, n),
	}
}

func (c *projections) get(i, j int) (solver.Projection, bool) {
	n := i*c.cols + j
	if !c.done[n] {
		c.res[n], c.ok[n] = solver.Project(c.query, c.s.Patch(i, j), c.opts)
		c.done[n] = true
	}
	return c.res[n], c.ok[n]
}

// Seek finds the first intersection point near pick. Every (P patch, Q
// patch) pair is tried in index order, starting the solver from the
// pick's projection onto each patch; the first solution with all four
// parameters in [0,1] wins. Between attempts the pick is shifted by
// SeedPerturbation in x and y. It returns the number of attempts used.
func (t *Tracer) Seek(pick v2.Vec) (Point, int, error) {
	prows, pcols := t.p.PatchGrid()
	qrows, qcols := t.q.PatchGrid()
	opts := t.params.Solver

	cur := pick
	for attempt := 1; attempt <= t.params.MaxTries; attempt++ {
		if attempt > 1 {
			cur = cur.Add(v2.Vec{X: t.params.SeedPerturbation, Y: t.params.SeedPerturbation})
		}
		query := t.toQuery(cur)
		onP := newProjections(t.p, query, opts)
		onQ := newProjections(t.q, query, opts)

		for i := range prows {
			for j := range pcols {
				pp, ok := onP.get(i, j)
				if !ok {
					continue
				}
				for k := range qrows {
					for l := range qcols {
						qp, ok := onQ.get(k, l)
						if !ok {
							continue
						}
						sol, ok := solver.Solve(t.p, i, j, pp.U, pp.V, t.q, k, l, qp.U, qp.V, opts)
						if !ok || !t.inRange(sol.U, sol.V, sol.S, sol.T) {
							continue
						}
						t.log.Debug("seed found", "pick", pick, "attempt", attempt,
							"p", [2]int{i, j}, "q", [2]int{k, l})
						return t.point(i, j, sol.U, sol.V, k, l, sol.S, sol.T), attempt, nil
					}
				}
			}
		}
	}
	return Point{}, t.params.MaxTries, &SeekError{Pick: pick, Attempts: t.params.MaxTries}
}
