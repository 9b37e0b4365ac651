package table

import (
	"sort"
	"sync/atomic"

	"github.com/katalvlaran/reconstruct/rakey"
)

// Tuple pairs a packed Key with a count or probability value.
type Tuple struct {
	Key   *rakey.Key
	Value float64
}

// ContingencyTable is a sparse sorted vector of Tuples addressed by
// rakey.Key. After Sort, keys strictly ascend (duplicates may remain until
// Merge collapses them additively).
type ContingencyTable struct {
	keySize int
	tuples  []Tuple
	sorted  bool
	merged  bool

	// projectionCalls counts Project invocations; read via ProjectionCalls.
	// Updated with atomic ops so a table shared read-only across goroutines
	// (per §5's "shared by immutable reference") can still be profiled.
	projectionCalls int64
}

// New constructs an empty ContingencyTable for keys of the given segment
// count (rakey.VariableList.KeySize()).
func New(keySize int) *ContingencyTable {
	return &ContingencyTable{keySize: keySize}
}

// KeySize returns the Key segment count this table was constructed for.
func (t *ContingencyTable) KeySize() int { return t.keySize }

// Len returns the number of tuples currently stored (duplicates included
// until Merge runs).
func (t *ContingencyTable) Len() int { return len(t.tuples) }

// Add appends (key, val) and marks the table unsorted.
//
// Returns ErrKeySizeMismatch if key's segment count disagrees with the
// table's.
func (t *ContingencyTable) Add(key *rakey.Key, val float64) error {
	if len(key.Words()) != t.keySize {
		return ErrKeySizeMismatch
	}
	t.tuples = append(t.tuples, Tuple{Key: key, Value: val})
	t.sorted = false
	t.merged = false
	return nil
}

// Sort re-establishes ascending key order (stable, so callers that rely on
// insertion-order tie-breaking before a Merge keep it).
func (t *ContingencyTable) Sort() {
	sort.SliceStable(t.tuples, func(i, j int) bool {
		return t.tuples[i].Key.Compare(t.tuples[j].Key) < 0
	})
	t.sorted = true
}

// Merge collapses consecutive equal-key entries by summing their values.
// It calls Sort first if the table is not already sorted; it is a no-op
// (besides setting the merged flag) if there is nothing to collapse.
func (t *ContingencyTable) Merge() {
	if !t.sorted {
		t.Sort()
	}
	if len(t.tuples) == 0 {
		t.merged = true
		return
	}
	out := t.tuples[:1]
	for _, cur := range t.tuples[1:] {
		last := &out[len(out)-1]
		if last.Key.Equal(cur.Key) {
			last.Value += cur.Value
			continue
		}
		out = append(out, cur)
	}
	t.tuples = out
	t.merged = true
}

// Sum returns the sum of all tuple values.
func (t *ContingencyTable) Sum() float64 {
	var s float64
	for _, tp := range t.tuples {
		s += tp.Value
	}
	return s
}

// Normalize divides every value by Sum(), so the table sums to 1. It is a
// no-op when Sum() <= 0.
func (t *ContingencyTable) Normalize() {
	sum := t.Sum()
	if sum <= 0 {
		return
	}
	inv := 1.0 / sum
	for i := range t.tuples {
		t.tuples[i].Value *= inv
	}
}

// Find locates key via binary search, returning its index and whether it
// was found. Requires the table to be sorted (ErrNotSorted otherwise).
func (t *ContingencyTable) Find(key *rakey.Key) (int, bool, error) {
	if !t.sorted {
		return 0, false, ErrNotSorted
	}
	n := len(t.tuples)
	idx := sort.Search(n, func(i int) bool {
		return t.tuples[i].Key.Compare(key) >= 0
	})
	if idx < n && t.tuples[idx].Key.Equal(key) {
		return idx, true, nil
	}
	return idx, false, nil
}

// Tuples returns the underlying tuple slice (read-only by convention).
func (t *ContingencyTable) Tuples() []Tuple { return t.tuples }

// Clone returns a deep-enough copy (fresh tuple slice; Keys are shared
// since Key values are treated as immutable once built).
func (t *ContingencyTable) Clone() *ContingencyTable {
	out := &ContingencyTable{
		keySize: t.keySize,
		tuples:  append([]Tuple(nil), t.tuples...),
		sorted:  t.sorted,
		merged:  t.merged,
	}
	return out
}

// ProjectionCalls reports how many times Project has been invoked on any
// table sharing this instrumentation counter's lineage (each Project
// result starts its own counter at zero; this reports the receiver's own
// count of projections performed *from* it).
func (t *ContingencyTable) ProjectionCalls() int64 {
	return atomic.LoadInt64(&t.projectionCalls)
}

// Project builds a new table whose keys are t's originals with all
// non-mask bits forced to don't-care via mask, then Sort+Merge establishes
// the sorted-no-duplicates invariant. sum(Project(V')) == sum(t) always
// holds since Merge only ever sums, never drops, values.
func (t *ContingencyTable) Project(mask *rakey.Key) (*ContingencyTable, error) {
	atomic.AddInt64(&t.projectionCalls, 1)

	out := New(t.keySize)
	out.tuples = make([]Tuple, 0, len(t.tuples))
	for _, tp := range t.tuples {
		projected, err := tp.Key.Apply(mask)
		if err != nil {
			return nil, err
		}
		out.tuples = append(out.tuples, Tuple{Key: projected, Value: tp.Value})
	}
	out.Sort()
	out.Merge()
	return out, nil
}
