// Package rastat implements the statistical measures of reconstructability
// analysis (C8): Shannon entropy, likelihood ratio, Pearson chi-squared,
// chi-squared p-values, AIC/BIC, and a Patnaik-approximated non-central
// chi-squared power calculation.
//
// Significance and power are computed with gonum.org/v1/gonum/stat/distuv
// rather than by hand-rolling a chi-squared survival function, the same
// way the pack's statistics-heavy sibling wraps distuv.ChiSquared/StudentsT
// behind small named helpers instead of inlining the CDF math at each call
// site.
//
// This package is a pure-math leaf: it never builds a junction tree or
// runs IPF itself. Callers (package manager) supply clique/separator
// marginals or a fitted joint and get back scalars.
package rastat
