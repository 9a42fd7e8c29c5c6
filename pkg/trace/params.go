package trace

import (
	"fmt"
	"log/slog"

	"github.com/chazu/surftrim/pkg/solver"
)

// Params controls seeking and marching.
type Params struct {
	Solver solver.Options

	// MaxTries bounds both the seek attempts per pick and the step retries
	// per marched point.
	MaxTries int
	// StepDivisor sets the step length: a retry r advances 1/(r·StepDivisor)
	// along the unit tangent.
	StepDivisor float64
	// SeedPerturbation is added to both pick coordinates between seek
	// attempts.
	SeedPerturbation float64
	// MaxSteps bounds the points marched in one direction.
	MaxSteps int

	// Logger receives trace diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultParams returns the standard tracing limits.
func DefaultParams() Params {
	return Params{
		Solver:           solver.DefaultOptions(),
		MaxTries:         10,
		StepDivisor:      50,
		SeedPerturbation: 0.01,
		MaxSteps:         10000,
	}
}

// Validate checks that every limit is usable.
func (p Params) Validate() error {
	switch {
	case p.MaxTries < 1:
		return fmt.Errorf("trace: MaxTries %d must be at least 1", p.MaxTries)
	case !(p.StepDivisor > 0):
		return fmt.Errorf("trace: StepDivisor %g must be positive", p.StepDivisor)
	case p.MaxSteps < 1:
		return fmt.Errorf("trace: MaxSteps %d must be at least 1", p.MaxSteps)
	case p.Solver.MaxIterations < 1:
		return fmt.Errorf("trace: solver MaxIterations %d must be at least 1", p.Solver.MaxIterations)
	case !(p.Solver.Epsilon > 0):
		return fmt.Errorf("trace: solver Epsilon %g must be positive", p.Solver.Epsilon)
	}
	return nil
}

func (p Params) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
