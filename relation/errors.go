package relation

import "errors"

// Sentinel errors for Relation/Model construction.
var (
	// ErrEmptyRelation indicates a Relation was constructed with zero variables.
	ErrEmptyRelation = errors.New("relation: relation has no variables")

	// ErrEmptyModel indicates a Model was constructed with zero relations.
	ErrEmptyModel = errors.New("relation: model has no relations")

	// ErrVariableListMismatch indicates two Relations or Models reference
	// different VariableLists and cannot be combined.
	ErrVariableListMismatch = errors.New("relation: variable list mismatch")

	// ErrUnknownAbbreviation surfaces spec.md §6's exact grammar error for
	// unparseable model notation.
	ErrUnknownAbbreviation = errors.New("relation: unknown variable abbreviation")
)
