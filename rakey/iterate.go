package rakey

// StateEnumerator is a lazy, finite, restartable sequence of state-index
// tuples over a list of cardinalities, in odometer order. Reverse selects
// fast-first (rightmost index advances fastest, reverse=false) or
// fast-last (leftmost advances fastest, reverse=true) digit order, per the
// stateEnumeration / stateEnumerationReverse protocols of spec.md §9.
type StateEnumerator struct {
	cards   []int
	indices []int
	reverse bool
	done    bool
	started bool
}

// NewStateEnumerator builds an enumerator over the given cardinalities.
// A zero or negative cardinality anywhere yields an immediately-exhausted
// enumerator.
func NewStateEnumerator(cardinalities []int, reverse bool) *StateEnumerator {
	se := &StateEnumerator{
		cards:   append([]int(nil), cardinalities...),
		indices: make([]int, len(cardinalities)),
		reverse: reverse,
	}
	for _, c := range cardinalities {
		if c <= 0 {
			se.done = true
			break
		}
	}
	return se
}

// Reset restarts the enumerator from the all-zero tuple.
func (se *StateEnumerator) Reset() {
	for i := range se.indices {
		se.indices[i] = 0
	}
	se.started = false
	se.done = len(se.cards) == 0 && false // re-derive below
	for _, c := range se.cards {
		if c <= 0 {
			se.done = true
			return
		}
	}
	se.done = false
}

// Next returns the next state tuple and true, or (nil, false) once
// exhausted. The returned slice is owned by the caller (a fresh copy).
func (se *StateEnumerator) Next() ([]int, bool) {
	if se.done {
		return nil, false
	}
	if !se.started {
		se.started = true
		if len(se.cards) == 0 {
			se.done = true
			return []int{}, true
		}
		out := make([]int, len(se.indices))
		copy(out, se.indices)
		return out, true
	}

	// Advance the odometer: fast-last digit is index 0 when reverse,
	// otherwise the last index, matching the documented fast-first vs
	// fast-last orders.
	if !se.advance() {
		se.done = true
		return nil, false
	}
	out := make([]int, len(se.indices))
	copy(out, se.indices)
	return out, true
}

// advance increments the odometer in place; returns false on overflow
// (the sequence is exhausted).
func (se *StateEnumerator) advance() bool {
	n := len(se.indices)
	if n == 0 {
		return false
	}
	if se.reverse {
		// fast-last: leftmost (index 0) advances fastest.
		for i := 0; i < n; i++ {
			se.indices[i]++
			if se.indices[i] < se.cards[i] {
				return true
			}
			se.indices[i] = 0
		}
		return false
	}
	// fast-first: rightmost advances fastest.
	for i := n - 1; i >= 0; i-- {
		se.indices[i]++
		if se.indices[i] < se.cards[i] {
			return true
		}
		se.indices[i] = 0
	}
	return false
}

// Total returns the product of all cardinalities (the number of states
// this enumerator will yield before exhausting).
func (se *StateEnumerator) Total() int64 {
	total := int64(1)
	for _, c := range se.cards {
		total *= int64(c)
	}
	return total
}
