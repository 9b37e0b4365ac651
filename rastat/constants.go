package rastat

// ProbMin is the floor applied to any probability before it is passed to
// log, and the cutoff below which a joint-reconstruction cell is treated
// as negligible (spec.md §4.8's "ProbMin = 1e-36 or similar").
const ProbMin = 1e-36

// clampProb floors p at ProbMin so log2/ln never see a non-positive or
// subnormal argument.
func clampProb(p float64) float64 {
	if p < ProbMin {
		return ProbMin
	}
	return p
}
