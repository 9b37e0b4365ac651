// Package manager implements the Analysis Manager (C9): the façade that
// owns a VariableList and its observed ContingencyTable, interns
// Relations and Models so repeated structural hypotheses share cached
// marginals, dispatches fit() to belief propagation or IPF depending on
// model decomposability, and derives the full battery of statistics
// (entropy, transmission, DF, LR, chi-squared, AIC/BIC, power) plus
// conditional-DV and confusion-matrix reporting for directed systems.
//
// Validation follows the teacher's sentinel-error-plus-wrapping
// discipline: ErrValidation/ErrComputation are package-level sentinels,
// wrapped with context by the ValidationError/ComputationError types
// (whose Unwrap returns the sentinel) so callers can errors.Is against
// the taxonomy named in spec.md §6 while still getting a specific
// message.
package manager
