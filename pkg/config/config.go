// Package config loads surftrim's tunables from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chazu/surftrim/pkg/solver"
	"github.com/chazu/surftrim/pkg/trace"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. SURFTRIM_MAX_TRIES.
const Prefix = "SURFTRIM"

// Config holds the tunables read from SURFTRIM_* environment variables.
type Config struct {
	Epsilon              float64       `envconfig:"EPSILON" default:"1e-7"`
	MaxIterations        int           `envconfig:"MAX_ITERATIONS" default:"20"`
	CoincidenceTolerance float64       `envconfig:"COINCIDENCE_TOLERANCE" default:"1e-4"`
	MaxTries             int           `envconfig:"MAX_TRIES" default:"10"`
	StepDivisor          float64       `envconfig:"STEP_DIVISOR" default:"50"`
	SeedPerturbation     float64       `envconfig:"SEED_PERTURBATION" default:"0.01"`
	MaxSteps             int           `envconfig:"MAX_STEPS" default:"10000"`
	TessellationDivs     int           `envconfig:"TESSELLATION_DIVISIONS" default:"8"`
	EvalTimeout          time.Duration `envconfig:"EVAL_TIMEOUT" default:"5s"`
	LogLevel             string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads Config from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	if err := cfg.TraceParams(nil).Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// TraceParams converts the tracing limits. logger may be nil.
func (c *Config) TraceParams(logger *slog.Logger) trace.Params {
	return trace.Params{
		Solver: solver.Options{
			Epsilon:              c.Epsilon,
			MaxIterations:        c.MaxIterations,
			CoincidenceTolerance: c.CoincidenceTolerance,
		},
		MaxTries:         c.MaxTries,
		StepDivisor:      c.StepDivisor,
		SeedPerturbation: c.SeedPerturbation,
		MaxSteps:         c.MaxSteps,
		Logger:           logger,
	}
}

// Level parses LogLevel ("debug", "info", "warn", "error", or offsets such
// as "info+2").
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return l, nil
}
