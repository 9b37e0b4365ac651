package chordal

import (
	"sort"

	"github.com/katalvlaran/reconstruct/relation"
)

// Graph is an undirected adjacency-list graph over variable indices, used
// only as an intermediate structure in loop detection (spec.md §4.4).
type Graph struct {
	vars []int // sorted ascending vertex set
	adj  map[int]map[int]struct{}
}

// BuildPrimal constructs the primal graph of a model: one vertex per
// variable appearing in some relation, with an edge between every pair of
// variables that co-appear in some relation.
func BuildPrimal(m *relation.Model) *Graph {
	vars := m.AllVariables()
	adj := make(map[int]map[int]struct{}, len(vars))
	for _, v := range vars {
		adj[v] = make(map[int]struct{})
	}
	for _, r := range m.Relations() {
		rv := r.Vars()
		for i := 0; i < len(rv); i++ {
			for j := i + 1; j < len(rv); j++ {
				adj[rv[i]][rv[j]] = struct{}{}
				adj[rv[j]][rv[i]] = struct{}{}
			}
		}
	}
	return &Graph{vars: vars, adj: adj}
}

// Vertices returns the sorted ascending vertex set.
func (g *Graph) Vertices() []int { return g.vars }

// Neighbors returns v's adjacent vertices, sorted ascending.
func (g *Graph) Neighbors(v int) []int {
	nbrs := make([]int, 0, len(g.adj[v]))
	for n := range g.adj[v] {
		nbrs = append(nbrs, n)
	}
	sort.Ints(nbrs)
	return nbrs
}

// Adjacent reports whether u and v are connected by an edge.
func (g *Graph) Adjacent(u, v int) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Degree returns the number of neighbors of v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }
