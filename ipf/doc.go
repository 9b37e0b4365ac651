// Package ipf implements Iterative Proportional Fitting (C7): the
// convergence procedure used to fit non-decomposable ("loop") models,
// where belief propagation's exact clique/separator factorization does
// not apply.
//
// The staged Validate/Prepare/Execute/Finalize shape of Fit mirrors the
// teacher's numeric convergence routines: inputs are validated up front,
// the uniform starting table and per-relation targets are prepared once,
// the iteration loop executes until convergence or the iteration cap, and
// Finalize packages the result (or raises ConvergenceError).
package ipf
