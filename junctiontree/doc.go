// Package junctiontree builds the clique tree (C5) used to drive exact
// belief propagation over a decomposable model: a maximum-weight spanning
// tree over a model's relations, joined by union-find, with Running
// Intersection Property verification and pre/post-order traversals for
// the collect and distribute phases of belief propagation.
//
// The union-find structure here generalizes the teacher's
// prim_kruskal.DSU: same path-compression-by-halving and union-by-rank
// discipline, applied to relation indices instead of graph vertices, and
// to a maximum- rather than minimum-weight spanning tree (ties among
// equal-weight edges are broken by ascending (i,j) for determinism,
// rather than negating weights and reusing a min-heap).
package junctiontree
