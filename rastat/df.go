package rastat

// ModelDF computes a decomposable model's degrees of freedom via
// inclusion-exclusion over its junction forest: DF = Σ NC(clique) -
// Σ NC(separator) - (#cliques - #separators). separatorNCs holds one
// entry per non-root clique (so #cliques - #separators is the number of
// connected components — 1 for a single tree, or more for an independence
// structure with several disjoint components), matching DF(clique) =
// NC(clique)-1 summed per clique and per separator individually rather
// than collapsing to a single constant offset.
func ModelDF(cliqueNCs, separatorNCs []int64) int64 {
	var df int64
	for _, nc := range cliqueNCs {
		df += nc
	}
	for _, nc := range separatorNCs {
		df -= nc
	}
	return df - int64(len(cliqueNCs)-len(separatorNCs))
}

// SaturatedDF computes the degrees of freedom of the saturated model
// directly from the full state-space size: DF = NC(all variables) - 1.
func SaturatedDF(totalStateSpace int64) int64 {
	return totalStateSpace - 1
}

// DeltaDF returns the difference between the saturated model's DF and a
// candidate model's DF.
func DeltaDF(dfSaturated, dfModel int64) int64 {
	return dfSaturated - dfModel
}
