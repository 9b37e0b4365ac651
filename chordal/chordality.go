package chordal

import (
	"sort"

	"github.com/katalvlaran/reconstruct/relation"
)

// PEOVerify checks that peo is a genuine perfect elimination ordering of
// g: for each vertex, among its neighbors appearing later in peo, the
// earliest-positioned one must be adjacent to all the others. If every
// vertex passes, g is chordal.
func PEOVerify(g *Graph, peo []int) bool {
	pos := make(map[int]int, len(peo))
	for i, v := range peo {
		pos[v] = i
	}

	for i, v := range peo {
		var later []int
		for _, nbr := range g.Neighbors(v) {
			if pos[nbr] > i {
				later = append(later, nbr)
			}
		}
		if len(later) <= 1 {
			continue
		}
		earliest := later[0]
		for _, w := range later[1:] {
			if pos[w] < pos[earliest] {
				earliest = w
			}
		}
		for _, w := range later {
			if w == earliest {
				continue
			}
			if !g.Adjacent(earliest, w) {
				return false
			}
		}
	}
	return true
}

// IsChordal reports whether g admits a perfect elimination ordering by
// running MCS and verifying its reverse.
func IsChordal(g *Graph) (bool, []int) {
	peo := PEO(g)
	return PEOVerify(g, peo), peo
}

// MaximalCliques enumerates the maximal cliques of a chordal graph given
// its PEO: for each vertex v, the candidate clique is v plus its later
// neighbors in peo; candidates subsumed by another candidate are dropped.
func MaximalCliques(g *Graph, peo []int) [][]int {
	pos := make(map[int]int, len(peo))
	for i, v := range peo {
		pos[v] = i
	}

	candidates := make([][]int, 0, len(peo))
	for i, v := range peo {
		clique := []int{v}
		for _, nbr := range g.Neighbors(v) {
			if pos[nbr] > i {
				clique = append(clique, nbr)
			}
		}
		sort.Ints(clique)
		candidates = append(candidates, clique)
	}

	keep := make([]bool, len(candidates))
	for i := range candidates {
		keep[i] = true
	}
	for i, ci := range candidates {
		if !keep[i] {
			continue
		}
		for j, cj := range candidates {
			if i == j || !keep[j] {
				continue
			}
			if isSortedSubset(ci, cj) && (len(ci) < len(cj) || j < i) {
				keep[i] = false
				break
			}
		}
	}

	out := make([][]int, 0, len(candidates))
	for i, c := range candidates {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// isSortedSubset reports whether every element of a appears in b, both
// assumed sorted ascending.
func isSortedSubset(a, b []int) bool {
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j >= len(b) || b[j] != v {
			return false
		}
	}
	return true
}

// LoopDetection reports whether model m has loops: a relation subsumes
// another relation in m, the primal graph is non-chordal, or some maximal
// clique of the primal graph is not contained in any single relation of m.
// Otherwise m is decomposable and LoopDetection returns false.
func LoopDetection(m *relation.Model) bool {
	rels := m.Relations()
	for i, ri := range rels {
		for j, rj := range rels {
			if i == j {
				continue
			}
			if ri.Subset(rj) {
				return true
			}
		}
	}

	g := BuildPrimal(m)
	chordalOK, peo := IsChordal(g)
	if !chordalOK {
		return true
	}

	cliques := MaximalCliques(g, peo)
	for _, clique := range cliques {
		contained := false
		for _, r := range rels {
			if isSortedSubset(clique, r.Vars()) {
				contained = true
				break
			}
		}
		if !contained {
			return true
		}
	}
	return false
}

// IsDecomposable is the complement of LoopDetection, matching the
// decomposable/loopless terminology used in the glossary.
func IsDecomposable(m *relation.Model) bool { return !LoopDetection(m) }
