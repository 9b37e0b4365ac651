package search

import (
	"context"

	"github.com/katalvlaran/reconstruct/manager"
)

// Statistic selects which fitted quantity the driver ranks candidates by
// (spec.md §4.11).
type Statistic int

const (
	// StatisticAIC minimizes the Akaike information criterion.
	StatisticAIC Statistic = iota
	// StatisticBIC minimizes the Bayesian information criterion.
	StatisticBIC
	// StatisticDDF maximizes degrees-of-freedom saved versus saturated.
	StatisticDDF
)

func (s Statistic) String() string {
	switch s {
	case StatisticAIC:
		return "AIC"
	case StatisticBIC:
		return "BIC"
	case StatisticDDF:
		return "DDF"
	default:
		return "unknown"
	}
}

// minimize reports whether lower values of s rank better. Only DDF
// maximizes.
func (s Statistic) minimize() bool { return s != StatisticDDF }

func (s Statistic) value(fit *manager.FitResult) float64 {
	switch s {
	case StatisticAIC:
		return fit.AIC
	case StatisticBIC:
		return fit.BIC
	case StatisticDDF:
		return float64(fit.DeltaDF)
	default:
		return fit.BIC
	}
}

// Config tunes one Search invocation.
type Config struct {
	Filter    Filter
	Direction Direction
	Statistic Statistic

	// Width is the number of candidates retained as next-level seeds.
	Width int
	// MaxLevels bounds the level loop.
	MaxLevels int
	// UseParallel enables the fork-join worker pool. false runs every
	// level's evaluations sequentially on the calling goroutine (used by
	// the parallel-determinism property: the candidate set must match
	// the parallel run exactly).
	UseParallel bool
	// ComplexityCap bounds loop-model relation variable counts (spec.md
	// §4.11 item 3): a loop model with any relation at ComplexityCap+1
	// variables or more is skipped rather than fit.
	ComplexityCap int

	// Policy is the FitPolicy every candidate evaluation uses. Search
	// defaults to PolicyPermissive: one bad candidate must never abort a
	// long run.
	Policy manager.FitPolicy

	// Progress, if non-nil, receives every emitted Event. Must be
	// safe to call from multiple goroutines.
	Progress func(Event)
	// ReportInterval is the number of within-seed evaluations between
	// cancellation checks when seeds are evaluated one task per seed
	// (sequential runs and seed-level parallelism); <= 0 checks only at
	// level boundaries.
	ReportInterval int
	// Cancel, if non-nil, is checked at level boundaries (and, if
	// ReportInterval > 0, between evaluations within a seed task).
	Cancel context.Context
}

// DefaultConfig returns the permissive, BIC-minimizing, loopless-ascending
// defaults.
func DefaultConfig() Config {
	return Config{
		Filter:        FilterLoopless,
		Direction:     Ascending,
		Statistic:     StatisticBIC,
		Width:         5,
		MaxLevels:     10,
		UseParallel:   true,
		ComplexityCap: 15,
		Policy:        manager.PolicyPermissive,
	}
}
