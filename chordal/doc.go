// Package chordal implements the primal graph of a hypergraph of
// relations, Maximum Cardinality Search (MCS), perfect elimination
// ordering (PEO) verification, maximal-clique enumeration on chordal
// graphs, and model-level loop detection.
//
// The primal graph has one vertex per variable that appears in some
// relation of a model, with an edge between every pair of variables that
// co-appear in some relation. It exists only as an ephemeral intermediate
// structure built fresh per model evaluation — never shared across
// goroutines — so, unlike the teacher's core.Graph, it carries no locks.
//
// LoopDetection replaces brute-force Running-Intersection-Property
// enumeration with the cheaper, equivalent test from spec.md §4.4: a model
// has loops iff a relation subsumes another (defensive — Model
// construction already prunes this), the primal graph is non-chordal, or
// some maximal clique of the primal graph is not contained in any single
// relation.
package chordal
