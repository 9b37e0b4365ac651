package rakey

import "errors"

// Sentinel errors for variable registration and key construction.
var (
	// ErrEmptyAbbrev indicates a Variable was registered with a blank abbreviation.
	ErrEmptyAbbrev = errors.New("rakey: variable abbreviation is empty")

	// ErrDuplicateAbbrev indicates two variables share the same abbreviation token.
	ErrDuplicateAbbrev = errors.New("rakey: duplicate variable abbreviation")

	// ErrBadCardinality indicates a cardinality below the minimum of 2.
	ErrBadCardinality = errors.New("rakey: cardinality must be >= 2")

	// ErrUnknownVariable indicates a variable index or abbreviation outside the list.
	ErrUnknownVariable = errors.New("rakey: unknown variable")

	// ErrValueOutOfRange indicates a value outside [0, cardinality) was supplied.
	ErrValueOutOfRange = errors.New("rakey: value out of range")

	// ErrInvalidKey indicates a Key whose word count does not match the VariableList's keySize.
	ErrInvalidKey = errors.New("rakey: key length mismatch")

	// ErrMultipleDependents indicates more than one variable was marked dependent
	// where the caller asked for a single-DV directed system.
	ErrMultipleDependents = errors.New("rakey: more than one dependent variable")
)
