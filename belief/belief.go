package belief

import (
	"math"
	"time"

	"github.com/katalvlaran/reconstruct/junctiontree"
	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/rastat"
	"github.com/katalvlaran/reconstruct/table"
)

// Result carries the outcome of exact inference over a junction forest.
// Iterations and Error are conventionally reported as 2 and 0 — belief
// propagation on a junction tree is exact, not iterative to a tolerance.
type Result struct {
	Joint          *table.ContingencyTable
	Iterations     int
	Error          float64
	CollectTime    time.Duration
	DistributeTime time.Duration
}

// cliqueState pairs a clique's projection mask with its current potential.
type cliqueState struct {
	mask      *rakey.Key
	potential *table.ContingencyTable
}

// Run performs collect-distribute belief propagation over every tree in
// forest and reconstructs the full joint over vl's state space.
func Run(forest *junctiontree.Forest, observed *table.ContingencyTable, vl *rakey.VariableList) (*Result, error) {
	var allCliques, allSeparators []cliqueState
	var collectTime, distributeTime time.Duration

	for _, tree := range forest.Trees {
		cliques := tree.Cliques()
		potentials := make([]*table.ContingencyTable, len(cliques))
		masks := make([]*rakey.Key, len(cliques))
		for i, c := range cliques {
			mask, err := c.Mask()
			if err != nil {
				return nil, err
			}
			potential, err := observed.Project(mask)
			if err != nil {
				return nil, err
			}
			masks[i] = mask
			potentials[i] = potential
		}

		sepMasks := make([]*rakey.Key, len(cliques))
		sepMessages := make([]*table.ContingencyTable, len(cliques))
		for i := range cliques {
			if tree.Parent(i) == -1 {
				continue
			}
			sep := tree.Separator(i)
			sepMask, err := sep.Mask()
			if err != nil {
				return nil, err
			}
			sepMasks[i] = sepMask
			initial, err := observed.Project(sepMask)
			if err != nil {
				return nil, err
			}
			sepMessages[i] = initial
		}

		start := time.Now()
		if err := collect(tree, potentials, sepMasks, sepMessages, vl.KeySize()); err != nil {
			return nil, err
		}
		collectTime += time.Since(start)

		start = time.Now()
		if err := distribute(tree, potentials, sepMasks, sepMessages, vl.KeySize()); err != nil {
			return nil, err
		}
		distributeTime += time.Since(start)

		for i := range cliques {
			allCliques = append(allCliques, cliqueState{mask: masks[i], potential: potentials[i]})
			if tree.Parent(i) != -1 {
				allSeparators = append(allSeparators, cliqueState{mask: sepMasks[i], potential: sepMessages[i]})
			}
		}
	}

	joint, err := reconstructJoint(vl, allCliques, allSeparators)
	if err != nil {
		return nil, err
	}

	return &Result{
		Joint:          joint,
		Iterations:     2,
		Error:          0,
		CollectTime:    collectTime,
		DistributeTime: distributeTime,
	}, nil
}

// collect runs the post-order (children-before-parents) message pass:
// each non-root clique's current separator projection is compared
// against its stored message, and the resulting ratio is folded into the
// parent's potential.
func collect(tree *junctiontree.Tree, potentials []*table.ContingencyTable, sepMasks []*rakey.Key, sepMessages []*table.ContingencyTable, keySize int) error {
	for _, i := range tree.PostOrder() {
		p := tree.Parent(i)
		if p == -1 {
			continue
		}
		newSep, err := potentials[i].Project(sepMasks[i])
		if err != nil {
			return err
		}
		ratio, err := elementwiseRatio(newSep, sepMessages[i], keySize)
		if err != nil {
			return err
		}
		applyRatio(potentials[p], sepMasks[i], ratio)
		sepMessages[i] = newSep
	}
	return nil
}

// distribute runs the pre-order (parents-before-children) message pass,
// symmetric to collect: the parent's current separator projection is
// compared against the stored message and folded into the child.
func distribute(tree *junctiontree.Tree, potentials []*table.ContingencyTable, sepMasks []*rakey.Key, sepMessages []*table.ContingencyTable, keySize int) error {
	for _, i := range tree.PreOrder() {
		p := tree.Parent(i)
		if p == -1 {
			continue
		}
		newSep, err := potentials[p].Project(sepMasks[i])
		if err != nil {
			return err
		}
		ratio, err := elementwiseRatio(newSep, sepMessages[i], keySize)
		if err != nil {
			return err
		}
		applyRatio(potentials[i], sepMasks[i], ratio)
		sepMessages[i] = newSep
	}
	return nil
}

// elementwiseRatio computes numer/denom cell by cell over the union of
// keys present in either table, flooring denom at rastat.ProbMin.
func elementwiseRatio(numer, denom *table.ContingencyTable, keySize int) (*table.ContingencyTable, error) {
	out := table.New(keySize)
	nt, dt := numer.Tuples(), denom.Tuples()
	i, j := 0, 0
	for i < len(nt) || j < len(dt) {
		switch {
		case j >= len(dt) || (i < len(nt) && nt[i].Key.Compare(dt[j].Key) < 0):
			if err := out.Add(nt[i].Key, nt[i].Value/rastat.ProbMin); err != nil {
				return nil, err
			}
			i++
		case i >= len(nt) || nt[i].Key.Compare(dt[j].Key) > 0:
			if err := out.Add(dt[j].Key, 0); err != nil {
				return nil, err
			}
			j++
		default:
			v := nt[i].Value / math.Max(dt[j].Value, rastat.ProbMin)
			if err := out.Add(nt[i].Key, v); err != nil {
				return nil, err
			}
			i++
			j++
		}
	}
	out.Sort()
	out.Merge()
	return out, nil
}

// applyRatio multiplies every cell of potential by ratio's value at that
// cell's projection onto mask, defaulting to 1 (no change) for cells
// ratio has no entry for.
func applyRatio(potential *table.ContingencyTable, mask *rakey.Key, ratio *table.ContingencyTable) {
	tuples := potential.Tuples()
	for idx := range tuples {
		projected, err := tuples[idx].Key.Apply(mask)
		if err != nil {
			continue
		}
		r, found := lookup(ratio, projected)
		if !found {
			r = 1.0
		}
		tuples[idx].Value *= r
	}
}

// reconstructJoint enumerates vl's full state space and, for each state,
// multiplies every clique potential's value at that state's projection
// and divides by every separator potential's value at its projection.
// Cells whose product falls at or below rastat.ProbMin are dropped.
func reconstructJoint(vl *rakey.VariableList, cliques, separators []cliqueState) (*table.ContingencyTable, error) {
	cards := make([]int, vl.Len())
	for i := range cards {
		v, err := vl.Variable(i)
		if err != nil {
			return nil, err
		}
		cards[i] = v.Cardinality
	}

	out := table.New(vl.KeySize())
	enum := rakey.NewStateEnumerator(cards, false)
	for state, ok := enum.Next(); ok; state, ok = enum.Next() {
		pairs := make(map[int]int, len(state))
		for i, v := range state {
			pairs[i] = v
		}
		key, err := rakey.BuildKey(vl, pairs)
		if err != nil {
			return nil, err
		}

		val := 1.0
		for _, c := range cliques {
			projected, err := key.Apply(c.mask)
			if err != nil {
				return nil, err
			}
			v, _ := lookup(c.potential, projected)
			val *= v
		}
		for _, s := range separators {
			projected, err := key.Apply(s.mask)
			if err != nil {
				return nil, err
			}
			v, _ := lookup(s.potential, projected)
			val /= math.Max(v, rastat.ProbMin)
		}

		if val > rastat.ProbMin {
			if err := out.Add(key, val); err != nil {
				return nil, err
			}
		}
	}
	out.Sort()
	out.Merge()
	return out, nil
}

// lookup returns t's value for key and whether it was present.
func lookup(t *table.ContingencyTable, key *rakey.Key) (float64, bool) {
	idx, found, err := t.Find(key)
	if err != nil || !found {
		return 0, false
	}
	return t.Tuples()[idx].Value, true
}
