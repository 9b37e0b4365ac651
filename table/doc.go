// Package table implements ContingencyTable: a sparse, sorted vector of
// (rakey.Key, value) tuples plus the projection (marginalization) operator
// that is the dominant hot path of the analysis engine.
//
// Lifecycle
//
//	A table is built once from source data (via repeated Add), then Sort
//	and Merge establish the sorted-no-duplicates invariant Find relies on.
//	Tables are treated as immutable once sorted in the fitting hot path;
//	Project always returns a fresh table rather than mutating its receiver.
//
// Determinism & performance
//
//	Sort is a stable sort by Key.Compare. Project is O(n) mask-apply work
//	followed by a sort+merge; ProjectionCalls counts invocations for the
//	optional lightweight instrumentation the spec calls for, at the cost
//	of one atomic add per Project call.
package table
