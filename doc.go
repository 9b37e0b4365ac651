// Package reconstruct is a toolkit for Reconstructability Analysis (RA):
// fitting, comparing, and searching hierarchical loglinear-style models of
// how a set of discrete variables' joint distribution decomposes into
// overlapping relations.
//
// What is reconstruct?
//
//	A layered library that takes you from raw frequency counts to a
//	ranked set of candidate models:
//
//	  • Variable bookkeeping: cardinalities, dependent-variable roles,
//	    packed state keys (rakey)
//	  • Sparse contingency tables over those keys (table)
//	  • Relations and models: canonical variable sets, subsumption
//	    pruning, "AB:BC" notation parsing (relation)
//	  • Chordality and junction-tree construction for decomposable
//	    models (chordal, junctiontree)
//	  • Exact fitting via belief propagation, approximate fitting via
//	    iterative proportional fitting for models with loops (belief, ipf)
//	  • Entropy, transmission, degrees of freedom, likelihood ratio,
//	    AIC/BIC and related statistics (rastat)
//	  • A single entry point tying fitting and statistics together with
//	    interning caches (manager)
//	  • Structural search filters and a parallel best-first search driver
//	    over the model lattice (search)
//
// Why reconstruct?
//
//   - Deterministic    — every search filter and driver run is
//     reproducible given the same seed and configuration
//   - Concurrent-safe  — manager.Manager's caches are mutex-guarded and
//     safe to share across search workers
//   - Exact where possible — decomposable models are fit by belief
//     propagation; IPF is reserved for models with loops
//
// Under the hood, each concern lives in its own subpackage:
//
//	rakey/        — variable lists and packed state keys
//	table/        — sparse contingency tables
//	relation/     — relations, models, canonical notation
//	chordal/      — primal graphs, chordality, maximal cliques
//	junctiontree/ — junction tree construction over a chordal model
//	belief/       — exact belief-propagation fitting
//	ipf/          — iterative proportional fitting for loop models
//	rastat/       — information-theoretic and goodness-of-fit statistics
//	manager/      — the analysis entry point tying the above together
//	search/       — structural neighbor filters and the parallel driver
//
//	go get github.com/katalvlaran/reconstruct
package reconstruct
