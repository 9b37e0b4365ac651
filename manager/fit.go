package manager

import (
	"time"

	"github.com/katalvlaran/reconstruct/belief"
	"github.com/katalvlaran/reconstruct/chordal"
	"github.com/katalvlaran/reconstruct/ipf"
	"github.com/katalvlaran/reconstruct/junctiontree"
	"github.com/katalvlaran/reconstruct/rastat"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/katalvlaran/reconstruct/table"
)

// FitPolicy selects how Fit reacts to a recoverable failure inside the
// chordal/junction-tree/IPF pipeline. Permissive is the dispatch default
// (spec.md §7): a single bad candidate should not abort a long search.
// Strict is meant for a single interactive fit call, where the caller
// wants the failure surfaced with diagnostics rather than papered over.
type FitPolicy int

const (
	// PolicyPermissive falls back from a junction-tree failure to IPF, and
	// returns a best-effort (converged=false) IPF result on non-convergence
	// instead of failing.
	PolicyPermissive FitPolicy = iota
	// PolicyStrict surfaces junction-tree failures and IPF non-convergence
	// as errors instead of working around them.
	PolicyStrict
)

// FitResult carries a fitted model's distribution and full statistics
// battery, matching the Analysis Manager's published FitResult shape.
type FitResult struct {
	Model    *relation.Model
	Fitted   *table.ContingencyTable
	HasLoops bool
	Method   string // "belief_propagation" or "ipf"

	H  float64 // model entropy, bits
	T  float64 // transmission: H(bottom) - H(model)
	DF int64
	// DeltaDF is the saturated model's DF minus this model's DF.
	DeltaDF int64
	LR      float64 // likelihood ratio vs. saturated
	ChiSq   float64 // Pearson chi-squared vs. saturated
	PValue  float64 // alpha
	Power   float64 // beta
	AIC     float64
	BIC     float64

	// Converged reports whether IPF reached Tolerance within MaxIterations.
	// Always true for decomposable (belief-propagation) fits.
	Converged bool
	// IPFIterations and IPFError are zero/zero for decomposable fits (BP
	// is exact, reported conventionally as iterations=2, error=0 inside
	// belief.Result, not here — this field is specifically the IPF count).
	IPFIterations int
	IPFError      float64

	CollectTime    time.Duration
	DistributeTime time.Duration
	IterationTimes []time.Duration
	TotalTime      time.Duration
}

// ipfDefaultConfig returns the IPF config Fit uses, wiring the policy's
// RaiseOnNonConvergence knob. MaxIterations is raised from ipf's own
// default of 100 to 200, the cap scenario 3's triangle-loop model is
// specified against.
func ipfDefaultConfig(policy FitPolicy) ipf.Config {
	cfg := ipf.DefaultConfig()
	cfg.MaxIterations = 200
	cfg.RaiseOnNonConvergence = policy == PolicyStrict
	return cfg
}

// Fit orchestrates C4 (loop detection) into belief propagation on the
// junction tree for decomposable models, or IPF for non-decomposable
// ones, then derives the full statistics battery against the saturated
// model.
func (mgr *Manager) Fit(model *relation.Model, policy FitPolicy) (*FitResult, error) {
	start := time.Now()
	prof := mgr.Profiler()

	var hasLoops bool
	_ = prof.Track(OpChordality, func() error {
		hasLoops = chordal.LoopDetection(model)
		return nil
	})

	result := &FitResult{Model: model, HasLoops: hasLoops}

	if !hasLoops {
		var forest *junctiontree.Forest
		buildErr := prof.Track(OpJunctionTree, func() error {
			var err error
			forest, err = junctiontree.Build(model)
			return err
		})
		if buildErr != nil {
			if policy == PolicyStrict {
				return nil, newComputationError("building junction tree", buildErr)
			}
			// Permissive: treat the construction failure like a detected
			// loop and fall back to IPF below.
			hasLoops = true
			result.HasLoops = true
		} else {
			var bpResult *belief.Result
			beliefErr := prof.Track(OpBelief, func() error {
				var err error
				bpResult, err = belief.Run(forest, mgr.normalized, mgr.vl)
				return err
			})
			if beliefErr != nil {
				if policy == PolicyStrict {
					return nil, newComputationError("running belief propagation", beliefErr)
				}
				hasLoops = true
				result.HasLoops = true
			} else {
				result.Method = "belief_propagation"
				result.Fitted = bpResult.Joint
				result.Converged = true
				result.CollectTime = bpResult.CollectTime
				result.DistributeTime = bpResult.DistributeTime
			}
		}
	}

	if hasLoops && result.Fitted == nil {
		cfg := ipfDefaultConfig(policy)
		var ipfResult *ipf.Result
		ipfErr := prof.Track(OpIPF, func() error {
			var err error
			ipfResult, err = ipf.Fit(mgr.normalized, model.Relations(), mgr.vl, cfg)
			return err
		})
		if ipfErr != nil {
			return nil, newComputationError("running IPF", ipfErr)
		}
		result.Method = "ipf"
		result.Fitted = ipfResult.Fitted
		result.IPFIterations = ipfResult.Iterations
		result.IPFError = ipfResult.Error
		result.Converged = ipfResult.Error < cfg.Tolerance
		result.IterationTimes = ipfResult.IterationTimes
	}

	if err := prof.Track(OpStatistics, func() error {
		return mgr.computeStatistics(model, result)
	}); err != nil {
		return nil, err
	}

	result.TotalTime = time.Since(start)
	return result, nil
}
