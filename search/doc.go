// Package search implements the structural search filters (C10) and the
// parallel best-first model-search driver (C11): given a seed model, a
// filter generates a bounded, deterministic, duplicate-free set of
// neighbor models; the driver fits each neighbor, scores it against a
// chosen statistic, and advances a level loop with a per-level fork-join
// boundary.
//
// Filters never touch a ContingencyTable — they operate purely on a
// Model's relation structure. The driver shares one Manager across all
// worker goroutines: Manager's interning caches are already mutex-guarded
// and its tables are immutable after construction, so a single shared
// Manager gives every worker the safety of isolation while letting the
// whole run benefit from one relation/model cache instead of one per
// worker — the cache-hit-rate progress metric only means anything measured
// against a single shared cache.
package search
