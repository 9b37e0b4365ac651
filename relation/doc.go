// Package relation implements Relation (a canonically-ordered variable
// subset) and Model (a canonically-ordered, subsumption-pruned set of
// Relations), the structural hypergraph vocabulary reconstructability
// analysis scores and searches over.
//
// Relations and Models are immutable values: construction sorts and (for
// Model) prunes once, after which every accessor is a pure read. Two
// models are considered the lattice-parent of one another via
// ContainsModel: M.ContainsModel(child) holds when every relation of M is
// a subset of some relation of child — i.e. child is at least as coarse
// as M: each of M's relations fits inside one of child's.
//
// Neither type interns or caches across instances; the Analysis Manager
// (package manager) owns the relation/model interning caches keyed by
// canonical name, per spec.md §4.9.
package relation
