package junctiontree

import (
	"errors"
	"fmt"
)

// ErrEmptyModel is returned when Build is called with a model that has no
// relations to form cliques from.
var ErrEmptyModel = errors.New("junctiontree: model has no relations")

// ErrRIPViolation is returned when a built tree fails Running Intersection
// Property verification for some variable.
var ErrRIPViolation = errors.New("junctiontree: running intersection property violated")

// JunctionTreeError reports a structural failure of the built tree,
// carrying the offending variable index for RIP violations (-1 otherwise).
type JunctionTreeError struct {
	Variable int
	err      error
}

func (e *JunctionTreeError) Error() string {
	if e.Variable >= 0 {
		return fmt.Sprintf("%s: variable index %d", e.err, e.Variable)
	}
	return e.err.Error()
}

func (e *JunctionTreeError) Unwrap() error { return e.err }
