// Package rakey implements the packed bit-key addressing scheme used
// throughout reconstructability analysis: a Variable/VariableList registry
// that assigns each categorical variable a fixed-width field inside a
// multi-word Key, plus the projection-mask arithmetic that the
// contingency-table and relation layers build on.
//
// Layout
//
//	A VariableList packs variables left-to-right across fixed-width 64-bit
//	segments. Each variable gets ceil(log2(cardinality+1)) bits — one extra
//	code point beyond the cardinality is reserved for "don't care" (encoded
//	as all-ones within that variable's field). A variable's bit range never
//	crosses a segment boundary; when the next variable wouldn't fit in the
//	remaining bits of the current segment, packing advances to a fresh one.
//
// Matching
//
//	Two keys match iff, for every variable position, either both store the
//	same value or at least one is don't-care. Match offers both a fast
//	whole-segment shortcut and a precise per-variable path; callers needing
//	strict semantics across partially-wildcarded segments must use the
//	precise one (see key.go).
package rakey
