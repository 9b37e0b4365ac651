package relation

import (
	"sort"
	"strings"
	"sync"

	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/table"
)

// Relation is an ordered set of variable indices, canonicalized ascending
// at construction. NC and DF are derived from the owning VariableList's
// cardinalities; PrintName concatenates the variables' abbreviations in
// canonical order.
type Relation struct {
	vl   *rakey.VariableList
	vars []int // canonical ascending, deduplicated

	mu       sync.Mutex
	marginal *table.ContingencyTable // cached projection onto vars, if any
}

// New builds a Relation over vars (deduplicated and sorted ascending).
// Returns ErrEmptyRelation if vars is empty after dedup.
func New(vl *rakey.VariableList, vars []int) (*Relation, error) {
	uniq := make(map[int]struct{}, len(vars))
	for _, v := range vars {
		uniq[v] = struct{}{}
	}
	sorted := make([]int, 0, len(uniq))
	for v := range uniq {
		sorted = append(sorted, v)
	}
	sort.Ints(sorted)
	if len(sorted) == 0 {
		return nil, ErrEmptyRelation
	}
	return &Relation{vl: vl, vars: sorted}, nil
}

// Vars returns the canonical ascending variable-index slice (read-only by
// convention).
func (r *Relation) Vars() []int { return r.vars }

// VariableCount returns the number of variables in the relation.
func (r *Relation) VariableCount() int { return len(r.vars) }

// NC returns the product of the member variables' cardinalities.
func (r *Relation) NC() int64 {
	nc := int64(1)
	for _, idx := range r.vars {
		v, _ := r.vl.Variable(idx)
		nc *= int64(v.Cardinality)
	}
	return nc
}

// DF returns NC - 1.
func (r *Relation) DF() int64 { return r.NC() - 1 }

// PrintName concatenates member abbreviations in canonical (ascending
// index) order, e.g. variables 0,2 with abbreviations "A","C" print "AC".
func (r *Relation) PrintName() string {
	var sb strings.Builder
	for _, idx := range r.vars {
		v, _ := r.vl.Variable(idx)
		sb.WriteString(v.Abbrev)
	}
	return sb.String()
}

// containsVar reports whether idx is a member of r, via binary search
// over the canonical ascending slice.
func (r *Relation) containsVar(idx int) bool {
	i := sort.SearchInts(r.vars, idx)
	return i < len(r.vars) && r.vars[i] == idx
}

// Subset reports whether every variable of r is also a variable of other.
func (r *Relation) Subset(other *Relation) bool {
	for _, v := range r.vars {
		if !other.containsVar(v) {
			return false
		}
	}
	return true
}

// Overlap reports whether r and other share at least one variable.
func (r *Relation) Overlap(other *Relation) bool {
	for _, v := range r.vars {
		if other.containsVar(v) {
			return true
		}
	}
	return false
}

// setOp runs a two-pointer merge over the sorted var slices, keeping a
// variable when keep(inR, inOther) is true.
func setOp(a, b []int, keep func(inA, inB bool) bool) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			if keep(true, false) {
				out = append(out, a[i])
			}
			i++
		case i >= len(a) || b[j] < a[i]:
			if keep(false, true) {
				out = append(out, b[j])
			}
			j++
		default: // a[i] == b[j]
			if keep(true, true) {
				out = append(out, a[i])
			}
			i++
			j++
		}
	}
	return out
}

// Union returns the Relation over variables in r or other.
func (r *Relation) Union(other *Relation) (*Relation, error) {
	if r.vl != other.vl {
		return nil, ErrVariableListMismatch
	}
	vars := setOp(r.vars, other.vars, func(inA, inB bool) bool { return true })
	return New(r.vl, vars)
}

// Intersection returns the Relation over variables in both r and other, or
// nil (no error) if the intersection is empty.
func (r *Relation) Intersection(other *Relation) (*Relation, error) {
	if r.vl != other.vl {
		return nil, ErrVariableListMismatch
	}
	vars := setOp(r.vars, other.vars, func(inA, inB bool) bool { return inA && inB })
	if len(vars) == 0 {
		return nil, nil
	}
	return New(r.vl, vars)
}

// Difference returns the Relation over variables in r but not other, or
// nil (no error) if the result is empty.
func (r *Relation) Difference(other *Relation) (*Relation, error) {
	if r.vl != other.vl {
		return nil, ErrVariableListMismatch
	}
	vars := setOp(r.vars, other.vars, func(inA, inB bool) bool { return inA && !inB })
	if len(vars) == 0 {
		return nil, nil
	}
	return New(r.vl, vars)
}

// Equal reports canonical equality (same variable set).
func (r *Relation) Equal(other *Relation) bool {
	if len(r.vars) != len(other.vars) {
		return false
	}
	for i := range r.vars {
		if r.vars[i] != other.vars[i] {
			return false
		}
	}
	return true
}

// Mask builds the projection mask onto this relation's variables.
func (r *Relation) Mask() (*rakey.Key, error) {
	return rakey.BuildMask(r.vl, r.vars)
}

// Marginal returns the cached projection of observed onto r's variables,
// computing and caching it on first call. Subsequent calls ignore
// `observed` and return the cached result — callers that swap datasets
// must call InvalidateCache first.
func (r *Relation) Marginal(observed *table.ContingencyTable) (*table.ContingencyTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.marginal != nil {
		return r.marginal, nil
	}
	mask, err := r.Mask()
	if err != nil {
		return nil, err
	}
	proj, err := observed.Project(mask)
	if err != nil {
		return nil, err
	}
	r.marginal = proj
	return proj, nil
}

// InvalidateCache clears any cached marginal projection.
func (r *Relation) InvalidateCache() {
	r.mu.Lock()
	r.marginal = nil
	r.mu.Unlock()
}
