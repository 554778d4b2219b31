package kernel

import (
	"errors"
	"fmt"
)

// OutOfBoundsError is returned when a coordinate falls outside the
// configured grid. It is raised synchronously by the call that supplied
// the bad coordinate; kernel state is guaranteed unchanged.
//
// This is the only error kind the kernel itself produces. Empty queues and
// zero budgets are normal termination paths of Run, not errors.
type OutOfBoundsError struct {
	Coord Coordinate // The offending coordinate
	Space Space      // The grid it was validated against
}

// Error implements the error interface.
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d,%d) outside grid %dx%dx%d",
		e.Coord.X, e.Coord.Y, e.Coord.Z,
		e.Space.Width, e.Space.Height, e.Space.Depth)
}

// IsOutOfBounds returns true if the error is an OutOfBoundsError.
// Uses errors.As to handle wrapped errors.
func IsOutOfBounds(err error) bool {
	var oob *OutOfBoundsError
	return errors.As(err, &oob)
}

func (s Space) check(c Coordinate) error {
	if !s.Contains(c) {
		return &OutOfBoundsError{Coord: c, Space: s}
	}
	return nil
}
