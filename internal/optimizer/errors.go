package optimizer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a request is rejected before enumeration.
	ErrInvalidInput = errors.New("invalid optimization input")

	// ErrCombinatorialOverflow is returned when the estimated search space
	// exceeds the hard ceiling. Narrow the price range or use fewer slots.
	ErrCombinatorialOverflow = errors.New("too many combinations")
)

// OverflowError carries the estimate that tripped the hard ceiling.
type OverflowError struct {
	Estimated float64
	Limit     float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: approximately %.3g combinations exceeds the limit of %.3g; "+
		"consider reducing the price range or the number of slots",
		ErrCombinatorialOverflow, e.Estimated, e.Limit)
}

func (e *OverflowError) Unwrap() error {
	return ErrCombinatorialOverflow
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
