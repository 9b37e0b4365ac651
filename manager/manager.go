package manager

import (
	"sync"

	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/katalvlaran/reconstruct/table"
)

// Manager owns a VariableList and its observed ContingencyTable and
// provides the single entry point for parsing, fitting, and scoring
// structural hypotheses against that dataset. A Manager is safe for
// concurrent use: its interning caches and profiler are mutex-guarded,
// which is what lets package search share one Manager across a worker
// pool instead of re-parsing and re-projecting per candidate.
type Manager struct {
	vl         *rakey.VariableList
	counts     *table.ContingencyTable // raw observed counts
	normalized *table.ContingencyTable // counts scaled to sum to 1
	n          float64                 // sample size, sum(counts)

	relations *relationCache
	models    *modelCache

	profMu   sync.Mutex
	profiler *Profiler
}

// NewManager validates vl and counts and returns a Manager ready to
// parse and fit models against them. counts is the raw observed
// contingency table; a normalized copy and the sample size N = sum(counts)
// are derived once here and reused by every statistic that needs them.
//
// Returns a *ValidationError if vl is nil/empty, counts is nil, counts's
// key size disagrees with vl's packed layout, or the sample sum is not
// positive.
func NewManager(vl *rakey.VariableList, counts *table.ContingencyTable) (*Manager, error) {
	if vl == nil || vl.Len() == 0 {
		return nil, newValidationError("variable list is nil or empty")
	}
	if counts == nil {
		return nil, newValidationError("observed table is nil")
	}
	if counts.KeySize() != vl.KeySize() {
		return nil, newValidationError("observed table key size %d does not match variable list key size %d", counts.KeySize(), vl.KeySize())
	}
	counts.Sort()
	counts.Merge()
	n := counts.Sum()
	if n <= 0 {
		return nil, newValidationError("observed table sample sum must be positive, got %v", n)
	}

	normalized := counts.Clone()
	normalized.Normalize()

	return &Manager{
		vl:         vl,
		counts:     counts,
		normalized: normalized,
		n:          n,
		relations:  newRelationCache(),
		models:     newModelCache(),
		profiler:   NewProfiler(ProfileNone),
	}, nil
}

// VariableList returns the Manager's VariableList.
func (mgr *Manager) VariableList() *rakey.VariableList { return mgr.vl }

// Counts returns the Manager's raw observed ContingencyTable.
func (mgr *Manager) Counts() *table.ContingencyTable { return mgr.counts }

// Normalized returns the Manager's normalized (sum-to-1) ContingencyTable.
func (mgr *Manager) Normalized() *table.ContingencyTable { return mgr.normalized }

// N returns the sample size: sum of the raw observed counts.
func (mgr *Manager) N() float64 { return mgr.n }

// SetProfiler installs p as the Manager's profiler, replacing whatever
// was set (including the default no-op profiler from NewManager). Pass
// nil to disable profiling again.
func (mgr *Manager) SetProfiler(p *Profiler) {
	mgr.profMu.Lock()
	defer mgr.profMu.Unlock()
	if p == nil {
		p = NewProfiler(ProfileNone)
	}
	mgr.profiler = p
}

// Profiler returns the Manager's current profiler.
func (mgr *Manager) Profiler() *Profiler {
	mgr.profMu.Lock()
	defer mgr.profMu.Unlock()
	return mgr.profiler
}

// RelationCacheStats reports the relation-interning cache's hit/miss
// counters.
func (mgr *Manager) RelationCacheStats() CacheStats { return mgr.relations.Stats() }

// ModelCacheStats reports the model-interning cache's hit/miss
// counters.
func (mgr *Manager) ModelCacheStats() CacheStats { return mgr.models.Stats() }

// ParseModel translates model notation into a *relation.Model, reusing
// a cached Model when s's canonical form has already been parsed and
// reusing cached Relations within a freshly built Model wherever their
// canonical names match ones already seen. Interning a Relation matters
// beyond memory: relation.Relation.Marginal caches the observed
// projection on the *Relation instance, so handing back the interned
// Relation means a clique shared by two models computes its marginal
// projection once, not once per model.
func (mgr *Manager) ParseModel(s string) (*relation.Model, error) {
	var result *relation.Model
	err := mgr.Profiler().Track(OpParseModel, func() error {
		parsed, err := relation.ParseModel(mgr.vl, s)
		if err != nil {
			return newValidationError("parsing model %q: %v", s, err)
		}

		if cached, ok := mgr.models.lookup(parsed.PrintName()); ok {
			result = cached
			return nil
		}

		interned := make([]*relation.Relation, len(parsed.Relations()))
		for i, r := range parsed.Relations() {
			interned[i] = mgr.relations.intern(r)
		}

		m, err := relation.NewModel(mgr.vl, interned)
		if err != nil {
			return newComputationError("rebuilding interned model", err)
		}

		// Another goroutine may have interned the same canonical name between
		// our lookup miss and now; re-check under the store lock's effective
		// serialization by re-looking-up before storing a second copy.
		if cached, ok := mgr.models.lookup(m.PrintName()); ok {
			result = cached
			return nil
		}
		mgr.models.store(m)
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Top returns the saturated model (spec.md §3's reference upper bound),
// interned like any ParseModel result.
func (mgr *Manager) Top() (*relation.Model, error) {
	return mgr.ParseModel(topName(mgr.vl))
}

// topName builds the saturated model's notation string directly (one
// relation spanning every variable) so Top can route through the same
// interning path as ParseModel instead of duplicating it.
func topName(vl *rakey.VariableList) string {
	s := ""
	for _, idx := range vl.AllIndices() {
		v, err := vl.Variable(idx)
		if err != nil {
			continue
		}
		s += v.Abbrev
	}
	return s
}

// Bottom returns the independence/reference model (spec.md §3's lower
// bound): relation.Bottom does not go through model notation, so it is
// interned directly rather than via ParseModel.
func (mgr *Manager) Bottom() (*relation.Model, error) {
	b, err := relation.Bottom(mgr.vl)
	if err != nil {
		return nil, newComputationError("building bottom model", err)
	}
	if cached, ok := mgr.models.lookup(b.PrintName()); ok {
		return cached, nil
	}

	interned := make([]*relation.Relation, len(b.Relations()))
	for i, r := range b.Relations() {
		interned[i] = mgr.relations.intern(r)
	}
	m, err := relation.NewModel(mgr.vl, interned)
	if err != nil {
		return nil, newComputationError("rebuilding interned bottom model", err)
	}
	if cached, ok := mgr.models.lookup(m.PrintName()); ok {
		return cached, nil
	}
	mgr.models.store(m)
	return m, nil
}
