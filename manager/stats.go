package manager

import (
	"github.com/katalvlaran/reconstruct/junctiontree"
	"github.com/katalvlaran/reconstruct/rastat"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/katalvlaran/reconstruct/table"
)

// significanceLevel is the fixed alpha Power is evaluated against
// (spec.md §4.8).
const significanceLevel = 0.05

// computeStatistics fills the statistics fields of result for model,
// given result.Fitted and result.HasLoops already set by Fit.
func (mgr *Manager) computeStatistics(model *relation.Model, result *FitResult) error {
	hSaturated := rastat.Entropy(mgr.normalized)

	var hModel float64
	if !result.HasLoops {
		forest, err := junctiontree.Build(model)
		if err != nil {
			return newComputationError("rebuilding junction tree for statistics", err)
		}
		h, _, _, err := mgr.decomposableEntropyAndDF(forest)
		if err != nil {
			return err
		}
		hModel = h
	} else {
		hModel = rastat.Entropy(result.Fitted)
	}

	// DF is purely structural (cardinalities and relation variable sets,
	// no data needed) and uses the same inclusion-exclusion identity for
	// every model: generalModelDF sums (-1)^(|S|+1)(NC(intersection of S)-1)
	// over every non-empty subset S of relations. For a decomposable model
	// this is provably equal to the junction tree's clique/separator
	// telescoping sum (RIP makes every 3rd-order-and-higher term vanish),
	// so rastat.ModelDF is used there as the O(cliques) shortcut; loop
	// models have no such tree, so the full subset sum runs directly.
	var df int64
	if !result.HasLoops {
		forest, err := junctiontree.Build(model)
		if err != nil {
			return newComputationError("rebuilding junction tree for DF", err)
		}
		var cliqueNCs, sepNCs []int64
		for _, tree := range forest.Trees {
			for i, c := range tree.Cliques() {
				cliqueNCs = append(cliqueNCs, c.NC())
				if tree.Parent(i) != -1 {
					sepNCs = append(sepNCs, tree.Separator(i).NC())
				}
			}
		}
		df = rastat.ModelDF(cliqueNCs, sepNCs)
	} else {
		gdf, err := generalModelDF(model.Relations())
		if err != nil {
			return newComputationError("computing degrees of freedom", err)
		}
		df = gdf
	}

	bottom, err := mgr.Bottom()
	if err != nil {
		return err
	}
	hBottom, err := mgr.decomposableEntropyOfModel(bottom)
	if err != nil {
		return err
	}

	n := int64(mgr.n)
	dfSaturated := rastat.SaturatedDF(mgr.vl.StateSpace())

	result.H = hModel
	result.T = rastat.Transmission(hBottom, hModel)
	result.DF = df
	result.DeltaDF = rastat.DeltaDF(dfSaturated, df)
	result.LR = rastat.LR(hModel, hSaturated, n)

	expectedCounts := scaleTable(result.Fitted, mgr.n)
	result.ChiSq = rastat.PearsonChiSquared(mgr.counts, expectedCounts)
	result.PValue = rastat.PValue(result.LR, result.DeltaDF)
	result.Power = rastat.Power(result.LR, result.DeltaDF, significanceLevel)
	result.AIC = rastat.AIC(result.LR, result.DF)
	result.BIC = rastat.BIC(result.LR, result.DeltaDF, n)

	return nil
}

// decomposableEntropyAndDF projects mgr.normalized onto every clique and
// separator of forest (via relation.Marginal, so repeated cliques across
// fits share one cached projection) and returns the inclusion-exclusion
// entropy alongside the raw NC slices ModelDF needs.
func (mgr *Manager) decomposableEntropyAndDF(forest *junctiontree.Forest) (float64, []int64, []int64, error) {
	var cliqueTables, sepTables []*table.ContingencyTable
	var cliqueNCs, sepNCs []int64

	for _, tree := range forest.Trees {
		cliques := tree.Cliques()
		for i, c := range cliques {
			marg, err := c.Marginal(mgr.normalized)
			if err != nil {
				return 0, nil, nil, newComputationError("projecting clique marginal", err)
			}
			cliqueTables = append(cliqueTables, marg)
			cliqueNCs = append(cliqueNCs, c.NC())

			if tree.Parent(i) == -1 {
				continue
			}
			sep := tree.Separator(i)
			sepMarg, err := sep.Marginal(mgr.normalized)
			if err != nil {
				return 0, nil, nil, newComputationError("projecting separator marginal", err)
			}
			sepTables = append(sepTables, sepMarg)
			sepNCs = append(sepNCs, sep.NC())
		}
	}

	return rastat.DecomposableEntropy(cliqueTables, sepTables), cliqueNCs, sepNCs, nil
}

// decomposableEntropyOfModel builds the junction forest for a known (or
// assumed) decomposable model and returns its inclusion-exclusion
// entropy. Used for the reference bottom model, which is always
// decomposable by construction (its relations are pairwise disjoint).
func (mgr *Manager) decomposableEntropyOfModel(model *relation.Model) (float64, error) {
	forest, err := junctiontree.Build(model)
	if err != nil {
		return 0, newComputationError("building reference model junction tree", err)
	}
	h, _, _, err := mgr.decomposableEntropyAndDF(forest)
	return h, err
}

// scaleTable returns a clone of t with every value multiplied by
// factor, used to turn a fitted probability table into expected counts
// for Pearson's chi-squared.
func scaleTable(t *table.ContingencyTable, factor float64) *table.ContingencyTable {
	out := t.Clone()
	tuples := out.Tuples()
	for i := range tuples {
		tuples[i].Value *= factor
	}
	return out
}

// maxGeneralDFRelations bounds the brute-force subset sum in
// generalModelDF: 2^n subsets over n relations. Loop models reaching
// this relation count are already well past the complexity cap's
// variable-count limit in practice.
const maxGeneralDFRelations = 20

// generalModelDF computes a model's degrees of freedom via the full
// inclusion-exclusion identity over every non-empty subset S of
// relations: df = Σ (-1)^(|S|+1) · (NC(∩ vars of S) - 1), with the
// intersection of an empty-overlap subset treated as the empty
// variable set (NC = 1, contributing 0). This is the general form of
// the junction-tree clique/separator telescoping sum used for
// decomposable models, specialized to subsets of size 1 and 2 there
// because RIP makes every higher-order term cancel.
func generalModelDF(relations []*relation.Relation) (int64, error) {
	n := len(relations)
	if n > maxGeneralDFRelations {
		return 0, newComputationError("too many relations for exact degrees of freedom", nil)
	}

	var df int64
	for mask := 1; mask < (1 << n); mask++ {
		bits := popcount(mask)

		var acc *relation.Relation
		first := true
		for i := 0; i < n; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			if first {
				acc = relations[i]
				first = false
				continue
			}
			next, err := acc.Intersection(relations[i])
			if err != nil {
				return 0, err
			}
			acc = next // nil once the running intersection goes empty
			if acc == nil {
				break
			}
		}

		nc := int64(1)
		if acc != nil {
			nc = acc.NC()
		}
		term := nc - 1
		if bits%2 == 1 {
			df += term
		} else {
			df -= term
		}
	}
	return df, nil
}

func popcount(mask int) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}

// ComputeH returns a model's entropy, fitting it first (permissively:
// a junction-tree failure falls back to IPF rather than erroring).
func (mgr *Manager) ComputeH(model *relation.Model) (float64, error) {
	r, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return 0, err
	}
	return r.H, nil
}

// ComputeT returns a model's transmission relative to the bottom model.
func (mgr *Manager) ComputeT(model *relation.Model) (float64, error) {
	r, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return 0, err
	}
	return r.T, nil
}

// ComputeDF returns a model's degrees of freedom.
func (mgr *Manager) ComputeDF(model *relation.Model) (int64, error) {
	r, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return 0, err
	}
	return r.DF, nil
}

// ComputeDDF returns the saturated model's DF minus model's DF.
func (mgr *Manager) ComputeDDF(model *relation.Model) (int64, error) {
	r, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return 0, err
	}
	return r.DeltaDF, nil
}

// ComputeLR returns a model's likelihood ratio against the saturated
// model.
func (mgr *Manager) ComputeLR(model *relation.Model) (float64, error) {
	r, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return 0, err
	}
	return r.LR, nil
}

// ComputeAIC returns a model's Akaike information criterion.
func (mgr *Manager) ComputeAIC(model *relation.Model) (float64, error) {
	r, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return 0, err
	}
	return r.AIC, nil
}

// ComputeBIC returns a model's Bayesian information criterion.
func (mgr *Manager) ComputeBIC(model *relation.Model) (float64, error) {
	r, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return 0, err
	}
	return r.BIC, nil
}
