package rakey

import (
	"fmt"
	"math/bits"
)

// segmentWidth is the fixed word width (in bits) of one Key segment.
// Complexity and layout arithmetic throughout this package assume 64.
const segmentWidth = 64

// allOnesSegment is the don't-care sentinel for an entire 64-bit segment.
const allOnesSegment = ^uint64(0)

// Variable describes one categorical axis of the contingency table.
//
// Cardinality is immutable after registration: NewVariableList computes
// the packed layout once at construction time and Key field widths are
// derived directly from it.
type Variable struct {
	// Name is the human-readable variable name (e.g. "Income").
	Name string

	// Abbrev is the single token used in model notation (e.g. "A").
	Abbrev string

	// Cardinality is the number of possible values, >= 2.
	Cardinality int

	// IsDependent marks this variable as a dependent variable (DV) of a
	// directed system.
	IsDependent bool

	// ValueLabels optionally names each of the Cardinality values.
	ValueLabels []string

	// segment/shift/mask/dontCare are assigned by NewVariableList and
	// describe this variable's field within a Key.
	segment  int
	shift    uint
	width    uint
	mask     uint64 // mask of this variable's bits *within* its segment, shifted into place
	dontCare uint64 // field value (already shifted) denoting "don't care"
}

// bitWidth returns ceil(log2(cardinality+1)), reserving one extra code
// point above the valid value range for the don't-care sentinel.
func bitWidth(cardinality int) uint {
	// n = cardinality+1 distinct code points must fit in the field.
	n := uint(cardinality + 1)
	if n <= 1 {
		return 1
	}
	return uint(bits.Len(n - 1))
}

// VariableList is an ordered registry of Variables with a packed bit layout.
//
// Variables are packed left-to-right across fixed 64-bit segments; a
// variable's field never straddles a segment boundary. keySize is the
// number of segments a Key built from this list must carry.
type VariableList struct {
	vars       []Variable
	byAbbrev   map[string]int
	keySize    int
	isDirected bool
	stateSpace int64
}

// NewVariableList builds a VariableList from the given variables, assigning
// each a packed (segment, shift, mask) field in registration order.
//
// Returns ErrEmptyAbbrev, ErrDuplicateAbbrev, or ErrBadCardinality if any
// variable is malformed.
func NewVariableList(vars []Variable) (*VariableList, error) {
	vl := &VariableList{
		vars:     make([]Variable, len(vars)),
		byAbbrev: make(map[string]int, len(vars)),
	}

	curSegment := 0
	curOffset := uint(0) // bits already consumed in curSegment

	stateSpace := int64(1)
	for i, v := range vars {
		if v.Abbrev == "" {
			return nil, fmt.Errorf("rakey: variable %q: %w", v.Name, ErrEmptyAbbrev)
		}
		if _, dup := vl.byAbbrev[v.Abbrev]; dup {
			return nil, fmt.Errorf("rakey: %q: %w", v.Abbrev, ErrDuplicateAbbrev)
		}
		if v.Cardinality < 2 {
			return nil, fmt.Errorf("rakey: variable %q: %w", v.Abbrev, ErrBadCardinality)
		}

		w := bitWidth(v.Cardinality)
		if curOffset+w > segmentWidth {
			// Doesn't fit in the remaining bits of the current segment:
			// advance to a fresh one.
			curSegment++
			curOffset = 0
		}

		fieldMask := (uint64(1) << w) - 1
		v.segment = curSegment
		v.shift = curOffset
		v.width = w
		v.mask = fieldMask << curOffset
		v.dontCare = fieldMask << curOffset // all-ones within the field IS the mask itself

		vl.vars[i] = v
		vl.byAbbrev[v.Abbrev] = i
		if v.IsDependent {
			vl.isDirected = true
		}
		stateSpace *= int64(v.Cardinality)

		curOffset += w
	}
	vl.keySize = curSegment + 1
	if len(vars) == 0 {
		vl.keySize = 0
	}
	vl.stateSpace = stateSpace

	return vl, nil
}

// Len returns the number of registered variables.
func (vl *VariableList) Len() int { return len(vl.vars) }

// KeySize returns the number of 64-bit segments a Key for this list carries.
func (vl *VariableList) KeySize() int { return vl.keySize }

// IsDirected reports whether at least one variable is marked dependent.
func (vl *VariableList) IsDirected() bool { return vl.isDirected }

// StateSpace returns the product of all variable cardinalities.
func (vl *VariableList) StateSpace() int64 { return vl.stateSpace }

// Variable returns the Variable registered at index i.
func (vl *VariableList) Variable(i int) (Variable, error) {
	if i < 0 || i >= len(vl.vars) {
		return Variable{}, fmt.Errorf("rakey: index %d: %w", i, ErrUnknownVariable)
	}
	return vl.vars[i], nil
}

// IndexOf looks up a variable's index by its abbreviation.
func (vl *VariableList) IndexOf(abbrev string) (int, error) {
	idx, ok := vl.byAbbrev[abbrev]
	if !ok {
		return -1, fmt.Errorf("rakey: %q: %w", abbrev, ErrUnknownVariable)
	}
	return idx, nil
}

// DependentIndices returns the indices of all dependent variables, in
// registration order.
func (vl *VariableList) DependentIndices() []int {
	out := make([]int, 0, 1)
	for i, v := range vl.vars {
		if v.IsDependent {
			out = append(out, i)
		}
	}
	return out
}

// SingleDependent returns the index of the sole dependent variable.
// Returns ErrMultipleDependents if more than one variable is marked
// dependent, or ErrUnknownVariable if none is.
func (vl *VariableList) SingleDependent() (int, error) {
	deps := vl.DependentIndices()
	switch len(deps) {
	case 0:
		return -1, fmt.Errorf("rakey: no dependent variable: %w", ErrUnknownVariable)
	case 1:
		return deps[0], nil
	default:
		return -1, ErrMultipleDependents
	}
}

// AllIndices returns every variable index [0, Len()).
func (vl *VariableList) AllIndices() []int {
	out := make([]int, len(vl.vars))
	for i := range out {
		out[i] = i
	}
	return out
}
