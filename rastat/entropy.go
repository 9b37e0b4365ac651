package rastat

import (
	"math"

	"github.com/katalvlaran/reconstruct/table"
)

// Entropy computes the Shannon entropy (in bits) of a normalized
// ContingencyTable: H = -Σ pᵢ log2 pᵢ over positive pᵢ. Zero and
// negative cells contribute 0.
func Entropy(t *table.ContingencyTable) float64 {
	var h float64
	for _, tp := range t.Tuples() {
		if tp.Value <= 0 {
			continue
		}
		h -= tp.Value * math.Log2(clampProb(tp.Value))
	}
	return h
}

// DecomposableEntropy computes model entropy via inclusion-exclusion over
// a junction tree's clique and separator marginals: H(model) =
// Σ H(clique) - Σ H(separator). cliques and separators are passed as
// already-normalized marginal tables (separators may be fewer than
// cliques by one per connected component, or absent for singleton
// components).
func DecomposableEntropy(cliques, separators []*table.ContingencyTable) float64 {
	var h float64
	for _, c := range cliques {
		h += Entropy(c)
	}
	for _, s := range separators {
		h -= Entropy(s)
	}
	return h
}

// Transmission returns the reduction in entropy from the independence
// (bottom) model to the candidate model: T = H(bottom) - H(model).
func Transmission(hBottom, hModel float64) float64 {
	return hBottom - hModel
}

// ConditionalEntropy returns H(DV|IV) = H(joint) - H(IV marginal), the
// measure reported for directed systems.
func ConditionalEntropy(hJoint, hIVMarginal float64) float64 {
	return hJoint - hIVMarginal
}
