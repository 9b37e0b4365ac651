package search

import (
	"sort"

	"github.com/katalvlaran/reconstruct/chordal"
	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/relation"
)

// Filter selects the neighbor-generation strategy (spec.md §4.10). Every
// filter is deterministic and duplicate-free per call, and never touches
// a ContingencyTable — it operates purely on relation structure.
type Filter int

const (
	// FilterLoopless keeps only decomposable neighbors (verified via
	// chordal.LoopDetection).
	FilterLoopless Filter = iota
	// FilterFull is the same structural neighbors as Loopless, without
	// the decomposability filter — includes loop models.
	FilterFull
	// FilterDisjoint keeps only neighbors whose relations share no
	// variables.
	FilterDisjoint
	// FilterChain restricts to path-shaped models AB:BC:CD... enumerated
	// over variable permutations.
	FilterChain
)

func (f Filter) String() string {
	switch f {
	case FilterLoopless:
		return "loopless"
	case FilterFull:
		return "full"
	case FilterDisjoint:
		return "disjoint"
	case FilterChain:
		return "chain"
	default:
		return "unknown"
	}
}

// Direction selects whether Neighbors grows or shrinks the seed model.
type Direction int

const (
	// Ascending neighbors add a variable to a relation or merge two
	// relations.
	Ascending Direction = iota
	// Descending neighbors split a relation into two.
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Neighbors generates model's neighbor set over vl under filter and
// direction. The returned slice is sorted by canonical name and contains
// no duplicate of model itself.
func Neighbors(vl *rakey.VariableList, model *relation.Model, filter Filter, direction Direction) ([]*relation.Model, error) {
	switch filter {
	case FilterLoopless:
		return structuralNeighbors(vl, model, direction, true)
	case FilterFull:
		return structuralNeighbors(vl, model, direction, false)
	case FilterDisjoint:
		return disjointNeighbors(vl, model, direction)
	case FilterChain:
		return chainNeighbors(vl, model)
	default:
		return nil, newSearchError("unknown filter %v", filter)
	}
}

// containsVar reports whether v is one of r's member variables.
func containsVar(r *relation.Relation, v int) bool {
	for _, x := range r.Vars() {
		if x == v {
			return true
		}
	}
	return false
}

// replaceAt returns a copy of rels with the element at idx replaced by
// repl.
func replaceAt(rels []*relation.Relation, idx int, repl *relation.Relation) []*relation.Relation {
	out := make([]*relation.Relation, len(rels))
	copy(out, rels)
	out[idx] = repl
	return out
}

// structuralNeighbors generates the add-variable/merge family (ascending)
// or the split family (descending), deduplicates by canonical name,
// drops model itself, and — when requireDecomposable is set — drops any
// candidate chordal.LoopDetection reports as having loops.
//
// For a directed system, ascending only extends relations containing the
// dependent variable and descending only splits them: non-predictive
// relations are the reserved IV-only block and are never a target.
func structuralNeighbors(vl *rakey.VariableList, model *relation.Model, direction Direction, requireDecomposable bool) ([]*relation.Model, error) {
	directed := vl.IsDirected()
	var dv int
	if directed {
		d, err := vl.SingleDependent()
		if err != nil {
			return nil, newSearchError("directed system without resolvable dependent variable: %v", err)
		}
		dv = d
	}

	var raw []*relation.Model
	switch direction {
	case Ascending:
		added, err := addVariableNeighbors(vl, model, directed, dv)
		if err != nil {
			return nil, err
		}
		merged, err := mergeNeighbors(vl, model, directed, dv)
		if err != nil {
			return nil, err
		}
		raw = append(added, merged...)
	case Descending:
		split, err := splitNeighbors(vl, model, directed, dv)
		if err != nil {
			return nil, err
		}
		raw = split
	default:
		return nil, newSearchError("unknown direction %v", direction)
	}

	seen := make(map[string]bool, len(raw))
	out := make([]*relation.Model, 0, len(raw))
	for _, cand := range raw {
		if cand.Equal(model) {
			continue
		}
		if requireDecomposable && chordal.LoopDetection(cand) {
			continue
		}
		name := cand.PrintName()
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PrintName() < out[j].PrintName() })
	return out, nil
}

// addVariableNeighbors builds, for every relation and every variable not
// already in it, the model obtained by adding that variable to the
// relation.
func addVariableNeighbors(vl *rakey.VariableList, model *relation.Model, directed bool, dv int) ([]*relation.Model, error) {
	rels := model.Relations()
	all := vl.AllIndices()
	var out []*relation.Model
	for i, r := range rels {
		if directed && !containsVar(r, dv) {
			continue
		}
		for _, v := range all {
			if containsVar(r, v) {
				continue
			}
			vars := append(append([]int{}, r.Vars()...), v)
			newRel, err := relation.New(vl, vars)
			if err != nil {
				return nil, err
			}
			m, err := relation.NewModel(vl, replaceAt(rels, i, newRel))
			if err != nil {
				continue // pruned away entirely; not a valid neighbor
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// mergeNeighbors builds, for every unordered pair of relations, the model
// obtained by replacing both with their union.
func mergeNeighbors(vl *rakey.VariableList, model *relation.Model, directed bool, dv int) ([]*relation.Model, error) {
	rels := model.Relations()
	var out []*relation.Model
	for i := 0; i < len(rels); i++ {
		for j := i + 1; j < len(rels); j++ {
			if directed && !containsVar(rels[i], dv) && !containsVar(rels[j], dv) {
				continue
			}
			union, err := rels[i].Union(rels[j])
			if err != nil {
				return nil, err
			}
			replaced := make([]*relation.Relation, 0, len(rels)-1)
			for k, r := range rels {
				if k == i || k == j {
					continue
				}
				replaced = append(replaced, r)
			}
			replaced = append(replaced, union)
			m, err := relation.NewModel(vl, replaced)
			if err != nil {
				continue
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// splitNeighbors builds, for every relation with at least two variables
// and every way to partition its variables into two non-empty subsets,
// the model obtained by replacing it with the two halves.
func splitNeighbors(vl *rakey.VariableList, model *relation.Model, directed bool, dv int) ([]*relation.Model, error) {
	rels := model.Relations()
	var out []*relation.Model
	for i, r := range rels {
		if r.VariableCount() < 2 {
			continue
		}
		if directed && !containsVar(r, dv) {
			continue
		}
		for _, part := range splitPartitions(r.Vars()) {
			ra, err := relation.New(vl, part[0])
			if err != nil {
				return nil, err
			}
			rb, err := relation.New(vl, part[1])
			if err != nil {
				return nil, err
			}
			replaced := make([]*relation.Relation, 0, len(rels)+1)
			for k, other := range rels {
				if k == i {
					continue
				}
				replaced = append(replaced, other)
			}
			replaced = append(replaced, ra, rb)
			m, err := relation.NewModel(vl, replaced)
			if err != nil {
				continue
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// splitPartitions enumerates every way to split vars (len >= 2) into two
// non-empty subsets, counting each unordered partition once: vars[0]
// always stays in the first half, and every submask over the remaining
// elements except the all-ones one (which would leave the second half
// empty) picks which of them join it.
func splitPartitions(vars []int) [][2][]int {
	n := len(vars)
	if n < 2 {
		return nil
	}
	rest := vars[1:]
	m := len(rest)
	full := 1 << m

	out := make([][2][]int, 0, full-1)
	for mask := 0; mask < full-1; mask++ {
		a := []int{vars[0]}
		var b []int
		for i, v := range rest {
			if mask&(1<<i) != 0 {
				a = append(a, v)
			} else {
				b = append(b, v)
			}
		}
		out = append(out, [2][]int{a, b})
	}
	return out
}

// isPairwiseDisjoint reports whether every pair of m's relations shares no
// variable.
func isPairwiseDisjoint(m *relation.Model) bool {
	rels := m.Relations()
	for i := 0; i < len(rels); i++ {
		for j := i + 1; j < len(rels); j++ {
			if rels[i].Overlap(rels[j]) {
				return false
			}
		}
	}
	return true
}

// disjointNeighbors generates the same structural family as FilterFull and
// keeps only the candidates whose relations remain pairwise disjoint.
func disjointNeighbors(vl *rakey.VariableList, model *relation.Model, direction Direction) ([]*relation.Model, error) {
	base, err := structuralNeighbors(vl, model, direction, false)
	if err != nil {
		return nil, err
	}
	out := make([]*relation.Model, 0, len(base))
	for _, m := range base {
		if isPairwiseDisjoint(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// chainNeighbors returns every path-shaped model over vl's variables
// other than model itself. Chain is a flat family rather than a local
// neighborhood, so "neighbors" here means the rest of the family.
func chainNeighbors(vl *rakey.VariableList, model *relation.Model) ([]*relation.Model, error) {
	chains, err := ChainModels(vl)
	if err != nil {
		return nil, err
	}
	out := make([]*relation.Model, 0, len(chains))
	for _, c := range chains {
		if !c.Equal(model) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ChainModels enumerates every path-shaped model AB:BC:CD... over
// permutations of vl's variables. A path and its reverse are the same
// undirected chain, so only the permutation whose first variable index is
// less than its last is kept.
func ChainModels(vl *rakey.VariableList) ([]*relation.Model, error) {
	order := vl.AllIndices()
	perm := make([]int, len(order))
	copy(perm, order)

	seen := make(map[string]bool)
	var out []*relation.Model
	var permErr error

	var permute func(k int)
	permute = func(k int) {
		if permErr != nil {
			return
		}
		if k == len(perm) {
			if len(perm) >= 2 && perm[0] > perm[len(perm)-1] {
				return
			}
			m, err := chainFromOrder(vl, perm)
			if err != nil {
				permErr = err
				return
			}
			name := m.PrintName()
			if !seen[name] {
				seen[name] = true
				out = append(out, m)
			}
			return
		}
		for i := k; i < len(perm); i++ {
			perm[k], perm[i] = perm[i], perm[k]
			permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	permute(0)
	if permErr != nil {
		return nil, permErr
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PrintName() < out[j].PrintName() })
	return out, nil
}

// chainFromOrder builds the path model over order: one relation per
// consecutive pair, e.g. [0,1,2] -> relation(0,1):relation(1,2).
func chainFromOrder(vl *rakey.VariableList, order []int) (*relation.Model, error) {
	if len(order) < 2 {
		r, err := relation.New(vl, order)
		if err != nil {
			return nil, err
		}
		return relation.NewModel(vl, []*relation.Relation{r})
	}
	rels := make([]*relation.Relation, 0, len(order)-1)
	for i := 0; i+1 < len(order); i++ {
		r, err := relation.New(vl, []int{order[i], order[i+1]})
		if err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return relation.NewModel(vl, rels)
}

// modelLevel is a model's position in the lattice: the sum of its
// relations' variable counts (equal for every member of a genuine
// set-partition lattice, but meaningfully distinct once relations may
// overlap, which is the generality LatticeModels explores).
func modelLevel(m *relation.Model) int {
	total := 0
	for _, r := range m.Relations() {
		total += r.VariableCount()
	}
	return total
}

// LatticeModels enumerates the structural lattice reachable from the
// independence model by repeated ascending structural moves (add-variable,
// merge), up to level cap, grouped by level. This realizes spec.md
// §4.10's "full lattice up to a cap, labeled by level" as a breadth-first
// reachability closure rather than a literal power-set enumeration, which
// is intractable beyond a handful of variables.
func LatticeModels(vl *rakey.VariableList, cap int) (map[int][]*relation.Model, error) {
	bottom, err := relation.Bottom(vl)
	if err != nil {
		return nil, err
	}

	byLevel := make(map[int][]*relation.Model)
	visited := map[string]bool{bottom.PrintName(): true}
	queue := []*relation.Model{bottom}

	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		level := modelLevel(m)
		byLevel[level] = append(byLevel[level], m)
		if level >= cap {
			continue
		}

		neighbors, err := structuralNeighbors(vl, m, Ascending, false)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if modelLevel(n) > cap {
				continue
			}
			name := n.PrintName()
			if visited[name] {
				continue
			}
			visited[name] = true
			queue = append(queue, n)
		}
	}

	for level := range byLevel {
		sort.Slice(byLevel[level], func(i, j int) bool {
			return byLevel[level][i].PrintName() < byLevel[level][j].PrintName()
		})
	}
	return byLevel, nil
}
