package table

import "errors"

// Sentinel errors for ContingencyTable operations.
var (
	// ErrKeySizeMismatch indicates a Key with a different segment count than
	// the table was constructed with.
	ErrKeySizeMismatch = errors.New("table: key size mismatch")

	// ErrNotSorted indicates Find was called before Sort established key
	// order, violating Find's binary-search precondition.
	ErrNotSorted = errors.New("table: table is not sorted")

	// ErrEmptyTable indicates an operation that requires a non-empty table
	// (e.g. Normalize's caller contract in strict mode) was given none.
	ErrEmptyTable = errors.New("table: table is empty")
)
