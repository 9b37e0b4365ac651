package ipf

import (
	"math"
	"time"

	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/rastat"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/katalvlaran/reconstruct/table"
)

// Result carries the outcome of a converged (or exhausted) IPF run.
type Result struct {
	Fitted         *table.ContingencyTable
	Iterations     int
	Error          float64
	IterationTimes []time.Duration
}

// Fit runs Iterative Proportional Fitting of observed (a normalized
// ContingencyTable) against relations over vl, per the Config policy.
//
// Implementation proceeds in the four stages the teacher's numeric
// routines use:
//   - Validate: non-empty relation set, sane config.
//   - Prepare: build the uniform starting table and, once, each
//     relation's target marginal (observed projected onto it).
//   - Execute: cycle through relations, rescaling the fit table cell by
//     cell toward each relation's target, until convergence or the
//     iteration cap.
//   - Finalize: package the Result, or raise ConvergenceError.
func Fit(observed *table.ContingencyTable, relations []*relation.Relation, vl *rakey.VariableList, cfg Config) (*Result, error) {
	// Stage: Validate.
	if len(relations) == 0 {
		return nil, ErrNoRelations
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 1
	}

	// Stage: Prepare.
	masks := make([]*rakey.Key, len(relations))
	targets := make([]*table.ContingencyTable, len(relations))
	for i, r := range relations {
		mask, err := r.Mask()
		if err != nil {
			return nil, err
		}
		target, err := observed.Project(mask)
		if err != nil {
			return nil, err
		}
		target.Normalize()
		masks[i] = mask
		targets[i] = target
	}

	fit, err := uniformTable(vl)
	if err != nil {
		return nil, err
	}

	// Stage: Execute.
	var (
		finalErr   float64
		iterations int
		times      []time.Duration
	)
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		start := time.Now()
		for i := range relations {
			current, err := fit.Project(masks[i])
			if err != nil {
				return nil, err
			}
			if err := rescaleTowardTarget(fit, masks[i], current, targets[i]); err != nil {
				return nil, err
			}
		}
		fit.Normalize()
		times = append(times, time.Since(start))

		finalErr, err = convergenceError(fit, masks, targets)
		if err != nil {
			return nil, err
		}
		iterations = iter

		if cfg.ProgressCallback != nil {
			last := iter == cfg.MaxIterations
			if last || (cfg.ReportingInterval > 0 && iter%cfg.ReportingInterval == 0) {
				cfg.ProgressCallback(ProgressEvent{Iteration: iter, Error: finalErr})
			}
		}

		if finalErr < cfg.Tolerance {
			break
		}
	}

	// Stage: Finalize.
	if finalErr >= cfg.Tolerance && cfg.RaiseOnNonConvergence {
		return nil, &ConvergenceError{Iterations: iterations, Tolerance: cfg.Tolerance, FinalError: finalErr}
	}
	return &Result{Fitted: fit, Iterations: iterations, Error: finalErr, IterationTimes: times}, nil
}

// rescaleTowardTarget multiplies every cell of fit by
// target[proj(cell, mask)] / max(current[proj(cell, mask)], ProbMin), in
// place.
func rescaleTowardTarget(fit *table.ContingencyTable, mask *rakey.Key, current, target *table.ContingencyTable) error {
	tuples := fit.Tuples()
	for idx := range tuples {
		projected, err := tuples[idx].Key.Apply(mask)
		if err != nil {
			return err
		}
		curVal := lookup(current, projected)
		tgtVal := lookup(target, projected)
		tuples[idx].Value *= tgtVal / math.Max(curVal, rastat.ProbMin)
	}
	return nil
}

// convergenceError recomputes each relation's current marginal from the
// now-renormalized fit table and returns the maximum absolute deviation
// from its target marginal, across every cell of either table.
func convergenceError(fit *table.ContingencyTable, masks []*rakey.Key, targets []*table.ContingencyTable) (float64, error) {
	var maxDev float64
	for i, mask := range masks {
		current, err := fit.Project(mask)
		if err != nil {
			return 0, err
		}
		target := targets[i]
		for _, tp := range current.Tuples() {
			dev := math.Abs(tp.Value - lookup(target, tp.Key))
			if dev > maxDev {
				maxDev = dev
			}
		}
		for _, tp := range target.Tuples() {
			dev := math.Abs(tp.Value - lookup(current, tp.Key))
			if dev > maxDev {
				maxDev = dev
			}
		}
	}
	return maxDev, nil
}

// lookup returns t's value for key, or 0 if absent. t must be sorted.
func lookup(t *table.ContingencyTable, key *rakey.Key) float64 {
	idx, found, err := t.Find(key)
	if err != nil || !found {
		return 0
	}
	return t.Tuples()[idx].Value
}

// uniformTable builds the starting fit table: every reachable state of vl
// carries equal probability.
func uniformTable(vl *rakey.VariableList) (*table.ContingencyTable, error) {
	cards := make([]int, vl.Len())
	for i := range cards {
		v, err := vl.Variable(i)
		if err != nil {
			return nil, err
		}
		cards[i] = v.Cardinality
	}

	total := vl.StateSpace()
	p := 1.0 / float64(total)

	out := table.New(vl.KeySize())
	enum := rakey.NewStateEnumerator(cards, false)
	for state, ok := enum.Next(); ok; state, ok = enum.Next() {
		pairs := make(map[int]int, len(state))
		for i, v := range state {
			pairs[i] = v
		}
		key, err := rakey.BuildKey(vl, pairs)
		if err != nil {
			return nil, err
		}
		if err := out.Add(key, p); err != nil {
			return nil, err
		}
	}
	out.Sort()
	out.Merge()
	return out, nil
}
