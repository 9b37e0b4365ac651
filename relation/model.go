package relation

import (
	"sort"
	"strings"

	"github.com/katalvlaran/reconstruct/rakey"
)

// Model is a canonically-sorted, subsumption-pruned set of Relations: a
// structural hypothesis over a VariableList. Relations that are subsets of
// other relations in the same model are removed on construction, so the
// retained set is always maximal.
type Model struct {
	vl        *rakey.VariableList
	relations []*Relation
	name      string

	// ID is an optional monotonic handle assigned by a Manager's model
	// cache on interning (spec.md §9's arena-index strategy for tracing a
	// candidate's progenitor without a raw pointer). Zero means unassigned.
	ID uint64
}

// NewModel builds a Model from relations, pruning subsumed relations and
// sorting the remainder by canonical print name.
//
// Returns ErrEmptyModel if no relation survives pruning, or
// ErrVariableListMismatch if the relations span different VariableLists.
func NewModel(vl *rakey.VariableList, relations []*Relation) (*Model, error) {
	for _, r := range relations {
		if r.vl != vl {
			return nil, ErrVariableListMismatch
		}
	}

	maximal := pruneSubsumed(relations)
	if len(maximal) == 0 {
		return nil, ErrEmptyModel
	}

	sort.Slice(maximal, func(i, j int) bool {
		return maximal[i].PrintName() < maximal[j].PrintName()
	})

	m := &Model{vl: vl, relations: maximal}
	m.name = m.buildName()
	return m, nil
}

// pruneSubsumed removes any relation that is a subset of another relation
// in the same slice, leaving the maximal set.
func pruneSubsumed(relations []*Relation) []*Relation {
	keep := make([]bool, len(relations))
	for i := range relations {
		keep[i] = true
	}
	for i, ri := range relations {
		if !keep[i] {
			continue
		}
		for j, rj := range relations {
			if i == j || !keep[j] {
				continue
			}
			// ri is subsumed by rj when ri ⊆ rj and they are not the exact
			// same variable set (equal relations: keep only the first).
			if ri.Subset(rj) && (!rj.Subset(ri) || j < i) {
				keep[i] = false
				break
			}
		}
	}
	out := make([]*Relation, 0, len(relations))
	for i, r := range relations {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

func (m *Model) buildName() string {
	parts := make([]string, len(m.relations))
	for i, r := range m.relations {
		parts[i] = r.PrintName()
	}
	return strings.Join(parts, ":")
}

// Relations returns the canonical (pruned, sorted) relation slice.
func (m *Model) Relations() []*Relation { return m.relations }

// VariableList returns the VariableList this model is defined over.
func (m *Model) VariableList() *rakey.VariableList { return m.vl }

// PrintName returns the cached canonical name: relation print-names joined
// by ":".
func (m *Model) PrintName() string { return m.name }

// Equal reports canonical equality via the cached name.
func (m *Model) Equal(other *Model) bool { return m.name == other.name }

// ContainsModel tests the lattice-parent relation: every relation in m is
// a subset of some relation in child (child is at least as coarse: each of
// m's relations fits inside one of child's).
func (m *Model) ContainsModel(child *Model) bool {
	for _, rm := range m.relations {
		found := false
		for _, rc := range child.relations {
			if rm.Subset(rc) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AllVariables returns the union of all relation variable sets, sorted
// ascending and deduplicated.
func (m *Model) AllVariables() []int {
	seen := make(map[int]struct{})
	for _, r := range m.relations {
		for _, v := range r.Vars() {
			seen[v] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Top builds the saturated model: one relation over all variables.
func Top(vl *rakey.VariableList) (*Model, error) {
	r, err := New(vl, vl.AllIndices())
	if err != nil {
		return nil, err
	}
	return NewModel(vl, []*Relation{r})
}

// Bottom builds the independence/reference model. For neutral (no
// dependent variable) systems it is one single-variable relation per
// variable; for directed systems it is two relations — one over all
// independent variables and one over the (single) dependent variable.
func Bottom(vl *rakey.VariableList) (*Model, error) {
	if !vl.IsDirected() {
		rels := make([]*Relation, 0, vl.Len())
		for _, idx := range vl.AllIndices() {
			r, err := New(vl, []int{idx})
			if err != nil {
				return nil, err
			}
			rels = append(rels, r)
		}
		return NewModel(vl, rels)
	}

	dv, err := vl.SingleDependent()
	if err != nil {
		return nil, err
	}
	ivs := make([]int, 0, vl.Len()-1)
	for _, idx := range vl.AllIndices() {
		if idx != dv {
			ivs = append(ivs, idx)
		}
	}
	ivRel, err := New(vl, ivs)
	if err != nil {
		return nil, err
	}
	dvRel, err := New(vl, []int{dv})
	if err != nil {
		return nil, err
	}
	return NewModel(vl, []*Relation{ivRel, dvRel})
}

// ParseModel translates model notation "Relation(:Relation)*" into a
// Model, looking up each Abbrev character via vl. Whitespace is trimmed
// and empty tokens ignored.
//
// Returns a *ParseError (which unwraps to ErrUnknownAbbreviation) for an
// unrecognized token, matching spec.md §6's grammar exactly.
func ParseModel(vl *rakey.VariableList, s string) (*Model, error) {
	tokens := strings.Split(s, ":")
	rels := make([]*Relation, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		vars, err := parseRelationToken(vl, tok)
		if err != nil {
			return nil, err
		}
		r, err := New(vl, vars)
		if err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	if len(rels) == 0 {
		return nil, ErrEmptyModel
	}
	return NewModel(vl, rels)
}

// parseRelationToken resolves each abbreviation character of tok against
// vl's abbreviation lookup. Abbreviations are matched greedily by trying
// the longest registered abbreviation prefix first, so multi-character
// abbreviations (e.g. "Z1") work alongside single-character ones.
func parseRelationToken(vl *rakey.VariableList, tok string) ([]int, error) {
	var vars []int
	for len(tok) > 0 {
		matched := false
		for length := len(tok); length >= 1; length-- {
			candidate := tok[:length]
			if idx, err := vl.IndexOf(candidate); err == nil {
				vars = append(vars, idx)
				tok = tok[length:]
				matched = true
				break
			}
		}
		if !matched {
			return nil, &ParseError{Token: tok}
		}
	}
	return vars, nil
}

// ParseError reports an unresolvable abbreviation token from ParseModel.
type ParseError struct {
	Token string
}

func (e *ParseError) Error() string {
	return "relation: unknown variable abbreviation: " + e.Token
}

func (e *ParseError) Unwrap() error { return ErrUnknownAbbreviation }
