package trace

import (
	"errors"
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ErrNoParametrizationFound is reported when no patch pair yields an
// intersection near a pick.
var ErrNoParametrizationFound = errors.New("no parametrization found")

// SeekError is returned by Seek and Trace when every attempt failed.
type SeekError struct {
	Pick     v2.Vec
	Attempts int
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("trace: %v for pick (%g, %g) after %d attempts",
		ErrNoParametrizationFound, e.Pick.X, e.Pick.Y, e.Attempts)
}

func (e *SeekError) Unwrap() error {
	return ErrNoParametrizationFound
}
