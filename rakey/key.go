package rakey

import "fmt"

// Key is an opaque tuple of fixed-width unsigned segments, interpreted
// through a VariableList. All-ones within a variable's field denotes
// "don't care" for that variable.
type Key struct {
	words []uint64
}

// NewWildcardKey builds a Key with every bit set, so every variable is
// don't-care and every segment is wholly don't-care for Match — the
// starting point for BuildKey and for projection masks.
func NewWildcardKey(vl *VariableList) *Key {
	k := &Key{words: make([]uint64, vl.KeySize())}
	for i := range k.words {
		k.words[i] = allOnesSegment
	}
	return k
}

// BuildKey produces a Key with the listed (variable index -> value) pairs
// set and every other variable marked don't-care.
//
// Returns ErrValueOutOfRange if any value falls outside [0, cardinality).
func BuildKey(vl *VariableList, pairs map[int]int) (*Key, error) {
	k := NewWildcardKey(vl)
	for idx, val := range pairs {
		if err := k.SetValue(vl, idx, val); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// clone returns a deep copy of k.
func (k *Key) clone() *Key {
	words := make([]uint64, len(k.words))
	copy(words, k.words)
	return &Key{words: words}
}

// Words exposes the raw segment slice (read-only by convention; callers
// must not mutate the returned slice).
func (k *Key) Words() []uint64 { return k.words }

// checkLen validates that k carries exactly vl.KeySize() segments.
func (k *Key) checkLen(vl *VariableList) error {
	if len(k.words) != vl.KeySize() {
		return fmt.Errorf("rakey: got %d segments, want %d: %w", len(k.words), vl.KeySize(), ErrInvalidKey)
	}
	return nil
}

// SetValue stores value for the variable at idx, clearing the don't-care
// marking for that variable.
func (k *Key) SetValue(vl *VariableList, idx, value int) error {
	if err := k.checkLen(vl); err != nil {
		return err
	}
	v, err := vl.Variable(idx)
	if err != nil {
		return err
	}
	if value < 0 || value >= v.Cardinality {
		return fmt.Errorf("rakey: %q value %d: %w", v.Abbrev, value, ErrValueOutOfRange)
	}
	// Clear this variable's field, then OR in the new value shifted into place.
	k.words[v.segment] &^= v.mask
	k.words[v.segment] |= uint64(value) << v.shift
	return nil
}

// SetWildcard marks the variable at idx as don't-care.
func (k *Key) SetWildcard(vl *VariableList, idx int) error {
	if err := k.checkLen(vl); err != nil {
		return err
	}
	v, err := vl.Variable(idx)
	if err != nil {
		return err
	}
	k.words[v.segment] |= v.mask
	return nil
}

// GetValue reads the value of the variable at idx. wildcard is true if the
// field currently holds the don't-care sentinel.
func (k *Key) GetValue(vl *VariableList, idx int) (value int, wildcard bool, err error) {
	if err = k.checkLen(vl); err != nil {
		return 0, false, err
	}
	v, err := vl.Variable(idx)
	if err != nil {
		return 0, false, err
	}
	field := (k.words[v.segment] & v.mask) >> v.shift
	if field == v.dontCare>>v.shift {
		return 0, true, nil
	}
	return int(field), false, nil
}

// Equal reports exact bitwise equality.
func (k *Key) Equal(other *Key) bool {
	if len(k.words) != len(other.words) {
		return false
	}
	for i := range k.words {
		if k.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Compare returns -1, 0, or 1 per lexicographic ordering of the segment
// slices, matching ContingencyTable's sort-by-key requirement.
func (k *Key) Compare(other *Key) int {
	n := len(k.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		if k.words[i] < other.words[i] {
			return -1
		}
		if k.words[i] > other.words[i] {
			return 1
		}
	}
	switch {
	case len(k.words) < len(other.words):
		return -1
	case len(k.words) > len(other.words):
		return 1
	default:
		return 0
	}
}

// Hash returns a deterministic hash of the key's segments (FNV-1a over the
// word slice), suitable for map-based deduplication during projection.
func (k *Key) Hash() uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for _, w := range k.words {
		for shift := 0; shift < 64; shift += 8 {
			h ^= (w >> shift) & 0xff
			h *= prime
		}
	}
	return h
}

// BuildMask returns a Key that is all-ones (don't-care) outside subset and
// all-zero inside it — the projection mask for Apply.
func BuildMask(vl *VariableList, subset []int) (*Key, error) {
	m := NewWildcardKey(vl) // start fully don't-care (all-ones everywhere)
	for _, idx := range subset {
		v, err := vl.Variable(idx)
		if err != nil {
			return nil, err
		}
		// Clear this variable's field to zero: it is "kept" by Apply.
		m.words[v.segment] &^= v.mask
	}
	return m, nil
}

// Apply returns a new Key equal to k|m: variables zeroed in m keep their
// actual value from k; variables all-ones in m become don't-care. This is
// the projection operator used by ContingencyTable.Project.
func (k *Key) Apply(m *Key) (*Key, error) {
	if len(k.words) != len(m.words) {
		return nil, ErrInvalidKey
	}
	out := &Key{words: make([]uint64, len(k.words))}
	for i := range k.words {
		out.words[i] = k.words[i] | m.words[i]
	}
	return out, nil
}

// Match reports whether a and b match using the fast whole-segment
// shortcut: a segment is treated as wholly don't-care only when every bit
// in it is set. This under-approximates per-variable wildcarding when a
// segment packs several variables and only some of them are don't-care —
// callers needing exact per-variable semantics must use MatchWithVarList.
func Match(a, b *Key) bool {
	n := len(a.words)
	if len(b.words) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if a.words[i] == b.words[i] {
			continue
		}
		if a.words[i] == allOnesSegment || b.words[i] == allOnesSegment {
			continue
		}
		return false
	}
	return true
}

// MatchWithVarList reports whether a and b match per spec: for every
// variable, either both store the same value or at least one is
// don't-care. This is the precise, per-variable semantics.
func MatchWithVarList(vl *VariableList, a, b *Key) (bool, error) {
	if err := a.checkLen(vl); err != nil {
		return false, err
	}
	if err := b.checkLen(vl); err != nil {
		return false, err
	}
	for _, v := range vl.vars {
		fa := a.words[v.segment] & v.mask
		fb := b.words[v.segment] & v.mask
		if fa == fb {
			continue
		}
		if fa == v.dontCare || fb == v.dontCare {
			continue
		}
		return false, nil
	}
	return true, nil
}
