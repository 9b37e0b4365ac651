package search

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/katalvlaran/reconstruct/chordal"
	"github.com/katalvlaran/reconstruct/manager"
	"github.com/katalvlaran/reconstruct/relation"
)

// ipfMaxIterationsMirror mirrors manager.ipfDefaultConfig's MaxIterations,
// reported on IPFIteration events since manager does not export its
// internal ipf.Config.
const ipfMaxIterationsMirror = 200

// Candidate is one evaluated model: its fitted statistic, whether it has
// loops, and whether it was skipped by the complexity cap rather than
// fit.
type Candidate struct {
	Model     *relation.Model
	Name      string
	Statistic float64
	HasLoops  bool
	Skipped   bool
	// ProgenitorID is the arena id (spec.md §9) of the model this
	// candidate's generating seed was interned as, 0 for the run's
	// initial seed.
	ProgenitorID uint64
}

// LevelTiming is one completed level's timing and counts.
type LevelTiming struct {
	Level           int
	Elapsed         time.Duration
	ModelsEvaluated int
	Loopless        int
	Loops           int
}

// Timing is a Result's full wall-clock breakdown.
type Timing struct {
	TotalElapsed time.Duration
	PerLevel     []LevelTiming
}

// Result is a completed (or cancelled) search's output.
type Result struct {
	RunID uuid.UUID
	// Candidates accumulates every evaluated candidate across every
	// level, including the seed and anything skipped by the complexity
	// cap — spec.md §4.11 item 4: "All candidates from all levels...
	// accumulate into the global result set."
	Candidates []Candidate
	Timing     Timing
	State      RunState
}

// exceedsComplexityCap reports whether any of model's relations has at
// least cap+1 variables.
func exceedsComplexityCap(model *relation.Model, cap int) bool {
	threshold := cap + 1
	for _, r := range model.Relations() {
		if r.VariableCount() >= threshold {
			return true
		}
	}
	return false
}

// progenitorID interns model into mgr's model cache (if not already
// present) and returns its arena id.
func progenitorID(mgr *manager.Manager, model *relation.Model) uint64 {
	interned, err := mgr.ParseModel(model.PrintName())
	if err != nil {
		return 0
	}
	return interned.ID
}

// evaluateOne fits model (routed through mgr's interning so repeated
// candidates across levels reuse cached relation marginals), applying
// the complexity-cap skip rule before touching the table at all.
func evaluateOne(mgr *manager.Manager, model *relation.Model, cfg Config, progenitor uint64) Candidate {
	interned, err := mgr.ParseModel(model.PrintName())
	if err != nil {
		return Candidate{Model: model, Name: model.PrintName(), Skipped: true, Statistic: math.Inf(1), ProgenitorID: progenitor}
	}
	model = interned

	hasLoops := chordal.LoopDetection(model)
	cand := Candidate{Model: model, Name: model.PrintName(), HasLoops: hasLoops, ProgenitorID: progenitor}

	if hasLoops && exceedsComplexityCap(model, cfg.ComplexityCap) {
		cand.Skipped = true
		cand.Statistic = math.Inf(1)
		return cand
	}

	fit, err := mgr.Fit(model, cfg.Policy)
	if err != nil {
		cand.Skipped = true
		cand.Statistic = math.Inf(1)
		return cand
	}
	cand.Statistic = cfg.Statistic.value(fit)

	if cfg.Progress != nil && fit.Method == "ipf" {
		cfg.Progress(Event{
			Kind:       EventIPFIteration,
			ModelName:  model.PrintName(),
			Iter:       fit.IPFIterations,
			MaxIter:    ipfMaxIterationsMirror,
			IPFError:   fit.IPFError,
			Converged:  fit.Converged,
			StateCount: mgr.VariableList().StateSpace(),
			RelCount:   len(model.Relations()),
		})
	}
	return cand
}

// evaluateMany fits models concurrently, bounded by sem, writing each
// result to its own positional slot (spec.md §9's mutable-slice strategy
// for cross-task result collection — no locking beyond the semaphore).
func evaluateMany(ctx context.Context, mgr *manager.Manager, sem *semaphore.Weighted, models []*relation.Model, cfg Config, progenitor uint64) ([]Candidate, error) {
	out := make([]Candidate, len(models))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range models {
		i, m := i, m
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			out[i] = evaluateOne(mgr, m, cfg, progenitor)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// evaluateSequential fits models one at a time on the calling goroutine —
// used both for UseParallel=false runs and as the per-seed task body
// under seed-level parallelism, matching spec.md §4.11 item 2: "each seed
// is processed by one task that generates its neighbors and evaluates
// them all locally."
func evaluateSequential(ctx context.Context, mgr *manager.Manager, models []*relation.Model, cfg Config, progenitor uint64) ([]Candidate, error) {
	out := make([]Candidate, 0, len(models))
	for i, m := range models {
		out = append(out, evaluateOne(mgr, m, cfg, progenitor))
		if cfg.ReportInterval > 0 && cfg.Cancel != nil && i%cfg.ReportInterval == 0 {
			select {
			case <-cfg.Cancel.Done():
				return out, ctx.Err()
			default:
			}
		}
	}
	return out, nil
}

// evaluateSeedsParallel runs one task per seed (each generating its own
// neighbors and evaluating them sequentially), bounded by sem.
func evaluateSeedsParallel(ctx context.Context, mgr *manager.Manager, sem *semaphore.Weighted, seeds []*relation.Model, cfg Config) ([]Candidate, error) {
	perSeed := make([][]Candidate, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			neighbors, err := Neighbors(mgr.VariableList(), seed, cfg.Filter, cfg.Direction)
			if err != nil {
				return err
			}
			progenitor := progenitorID(mgr, seed)
			cands, err := evaluateSequential(gctx, mgr, neighbors, cfg, progenitor)
			perSeed[i] = cands
			return err
		})
	}
	err := g.Wait()
	var all []Candidate
	for _, c := range perSeed {
		all = append(all, c...)
	}
	return all, err
}

func dedupByName(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

// sortCandidates orders deduped candidates by stat (minimize for
// AIC/BIC, maximize for DDF) with a lexicographic canonical-name
// tie-break, so output is deterministic regardless of thread scheduling.
func sortCandidates(cands []Candidate, stat Statistic) {
	minimize := stat.minimize()
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Statistic != cands[j].Statistic {
			if minimize {
				return cands[i].Statistic < cands[j].Statistic
			}
			return cands[i].Statistic > cands[j].Statistic
		}
		return cands[i].Name < cands[j].Name
	})
}

func aggregateCacheHitRate(mgr *manager.Manager) float64 {
	rel := mgr.RelationCacheStats()
	mdl := mgr.ModelCacheStats()
	total := rel.Hits + rel.Misses + mdl.Hits + mdl.Misses
	if total == 0 {
		return 0
	}
	return float64(rel.Hits+mdl.Hits) / float64(total)
}

// Search runs the parallel best-first model search (C11) from seed over
// mgr's VariableList and data, per cfg.
//
// mgr is shared read-only-safe state across every worker: its interning
// caches are mutex-guarded and its ContingencyTables are immutable once
// constructed, so one Manager instance serves the whole run instead of
// one per worker (see doc.go).
func Search(mgr *manager.Manager, seed *relation.Model, cfg Config) (*Result, error) {
	runID := uuid.New()
	ctx := cfg.Cancel
	if ctx == nil {
		ctx = context.Background()
	}

	maxWorkers := int64(runtime.GOMAXPROCS(0))
	if !cfg.UseParallel {
		maxWorkers = 1
	}
	sem := semaphore.NewWeighted(maxWorkers)

	if cfg.Progress != nil {
		cfg.Progress(Event{Kind: EventSearchStarted, RunID: runID, TotalLevels: cfg.MaxLevels, StatisticName: cfg.Statistic.String()})
	}

	result := &Result{RunID: runID, State: RunCompleted}
	estimator := NewRuntimeEstimator()
	runStart := time.Now()

	seedCand := evaluateOne(mgr, seed, cfg, 0)
	result.Candidates = append(result.Candidates, seedCand)
	totalEvaluated := 1
	var totalModelTime time.Duration

	currentLevel := []*relation.Model{seedCand.Model}

	for level := 1; level <= cfg.MaxLevels; level++ {
		if cfg.Cancel != nil {
			select {
			case <-cfg.Cancel.Done():
				result.State = RunCancelled
				goto finish
			default:
			}
		}

		{
			levelStart := time.Now()
			var levelCands []Candidate
			var err error

			if len(currentLevel) == 1 && cfg.UseParallel && maxWorkers >= 2 {
				neighbors, nerr := Neighbors(mgr.VariableList(), currentLevel[0], cfg.Filter, cfg.Direction)
				if nerr != nil {
					return nil, nerr
				}
				progenitor := progenitorID(mgr, currentLevel[0])
				levelCands, err = evaluateMany(ctx, mgr, sem, neighbors, cfg, progenitor)
			} else if cfg.UseParallel && len(currentLevel) > 1 {
				levelCands, err = evaluateSeedsParallel(ctx, mgr, sem, currentLevel, cfg)
			} else {
				for _, s := range currentLevel {
					neighbors, nerr := Neighbors(mgr.VariableList(), s, cfg.Filter, cfg.Direction)
					if nerr != nil {
						return nil, nerr
					}
					progenitor := progenitorID(mgr, s)
					cands, serr := evaluateSequential(ctx, mgr, neighbors, cfg, progenitor)
					levelCands = append(levelCands, cands...)
					if serr != nil {
						err = serr
						break
					}
				}
			}

			if err != nil && !errors.Is(err, context.Canceled) {
				return nil, newSearchError("evaluating level %d: %v", level, err)
			}

			result.Candidates = append(result.Candidates, levelCands...)
			totalEvaluated += len(levelCands)

			deduped := dedupByName(levelCands)
			sortCandidates(deduped, cfg.Statistic)

			loopless, loops := 0, 0
			for i := range deduped {
				if deduped[i].HasLoops {
					loops++
				} else {
					loopless++
				}
			}

			levelElapsed := time.Since(levelStart)
			totalModelTime += levelElapsed
			estimator.Record(levelElapsed)

			result.Timing.PerLevel = append(result.Timing.PerLevel, LevelTiming{
				Level: level, Elapsed: levelElapsed, ModelsEvaluated: len(levelCands),
				Loopless: loopless, Loops: loops,
			})

			if cfg.Progress != nil {
				ev := Event{
					Kind: EventSearchLevel, RunID: runID, Level: level,
					TotalModelsEvaluated: totalEvaluated, Loopless: loopless, Loops: loops,
					LevelElapsed: levelElapsed, Elapsed: time.Since(runStart),
					EstimatedRemaining: estimator.EstimateRemaining(cfg.MaxLevels - level),
					CacheHitRate:       aggregateCacheHitRate(mgr),
				}
				if totalEvaluated > 0 {
					ev.AvgModelElapsed = totalModelTime / time.Duration(totalEvaluated)
				}
				if len(deduped) > 0 {
					ev.BestName = deduped[0].Name
					ev.BestStat = deduped[0].Statistic
				}
				cfg.Progress(ev)
			}

			if errors.Is(err, context.Canceled) {
				result.State = RunCancelled
				goto finish
			}
			if len(deduped) == 0 {
				break
			}

			width := cfg.Width
			if width > len(deduped) {
				width = len(deduped)
			}
			nextLevel := make([]*relation.Model, width)
			for i := 0; i < width; i++ {
				nextLevel[i] = deduped[i].Model
			}
			currentLevel = nextLevel
		}
	}

finish:
	result.Timing.TotalElapsed = time.Since(runStart)
	if cfg.Progress != nil {
		cfg.Progress(Event{Kind: EventSearchComplete, RunID: runID, FinalState: result.State, TotalModelsEvaluated: totalEvaluated})
	}
	return result, nil
}
