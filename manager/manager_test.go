package manager_test

import (
	"testing"
	"time"

	"github.com/katalvlaran/reconstruct/manager"
	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVarList(t *testing.T, vars []rakey.Variable) *rakey.VariableList {
	t.Helper()
	vl, err := rakey.NewVariableList(vars)
	require.NoError(t, err)
	return vl
}

func addCount(t *testing.T, ct *table.ContingencyTable, vl *rakey.VariableList, pairs map[int]int, count float64) {
	t.Helper()
	key, err := rakey.BuildKey(vl, pairs)
	require.NoError(t, err)
	require.NoError(t, ct.Add(key, count))
}

func abcVarList(t *testing.T) *rakey.VariableList {
	t.Helper()
	return mustVarList(t, []rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
		{Name: "B", Abbrev: "B", Cardinality: 2},
		{Name: "C", Abbrev: "C", Cardinality: 2},
	})
}

func TestNewManager_RejectsBadInput(t *testing.T) {
	vl := abcVarList(t)
	ct := table.New(vl.KeySize())

	_, err := manager.NewManager(nil, ct)
	assert.Error(t, err)

	_, err = manager.NewManager(vl, nil)
	assert.Error(t, err)

	wrongSize := table.New(vl.KeySize() + 1)
	_, err = manager.NewManager(vl, wrongSize)
	assert.Error(t, err)

	_, err = manager.NewManager(vl, ct) // empty table, sum == 0
	assert.Error(t, err)
}

// TestFit_IndependenceThreeVariable exercises spec.md §8 scenario 1:
// uniform data over 8 cells, independence model A:B:C.
func TestFit_IndependenceThreeVariable(t *testing.T) {
	vl := abcVarList(t)
	ct := table.New(vl.KeySize())
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				addCount(t, ct, vl, map[int]int{0: a, 1: b, 2: c}, 100)
			}
		}
	}

	mgr, err := manager.NewManager(vl, ct)
	require.NoError(t, err)

	indep, err := mgr.ParseModel("A:B:C")
	require.NoError(t, err)
	saturated, err := mgr.ParseModel("ABC")
	require.NoError(t, err)

	indepFit, err := mgr.Fit(indep, manager.PolicyStrict)
	require.NoError(t, err)
	assert.False(t, indepFit.HasLoops)
	assert.InDelta(t, 3.0, indepFit.H, 1e-9)
	assert.InDelta(t, 0.0, indepFit.T, 1e-9)
	assert.EqualValues(t, 3, indepFit.DF)
	assert.InDelta(t, 0.0, indepFit.LR, 1e-6)

	satFit, err := mgr.Fit(saturated, manager.PolicyStrict)
	require.NoError(t, err)
	assert.EqualValues(t, 7, satFit.DF)
	assert.InDelta(t, 0.0, satFit.LR, 1e-9)
	assert.EqualValues(t, 0, satFit.DeltaDF)
	assert.InDelta(t, 1.0, satFit.PValue, 1e-9)
}

// TestFit_ChordalChainReproducesInputExactly exercises spec.md §8
// scenario 2: a genuine Markov chain A-B-C fit via AB:BC.
func TestFit_ChordalChainReproducesInputExactly(t *testing.T) {
	vl := abcVarList(t)
	ct := table.New(vl.KeySize())
	addCount(t, ct, vl, map[int]int{0: 0, 1: 0, 2: 0}, 50)
	addCount(t, ct, vl, map[int]int{0: 0, 1: 0, 2: 1}, 50)
	addCount(t, ct, vl, map[int]int{0: 1, 1: 1, 2: 0}, 50)
	addCount(t, ct, vl, map[int]int{0: 1, 1: 1, 2: 1}, 50)

	mgr, err := manager.NewManager(vl, ct)
	require.NoError(t, err)

	model, err := mgr.ParseModel("AB:BC")
	require.NoError(t, err)

	fit, err := mgr.Fit(model, manager.PolicyStrict)
	require.NoError(t, err)
	assert.False(t, fit.HasLoops)
	assert.Equal(t, "belief_propagation", fit.Method)
	assert.True(t, fit.Converged)

	normalized := mgr.Normalized()
	require.Equal(t, normalized.Len(), fit.Fitted.Len())
	for _, tp := range normalized.Tuples() {
		idx, found, err := fit.Fitted.Find(tp.Key)
		require.NoError(t, err)
		require.True(t, found)
		assert.InDelta(t, tp.Value, fit.Fitted.Tuples()[idx].Value, 1e-9)
	}
}

// TestFit_TriangleLoopConvergesViaIPF exercises spec.md §8 scenario 3.
func TestFit_TriangleLoopConvergesViaIPF(t *testing.T) {
	vl := abcVarList(t)
	ct := table.New(vl.KeySize())
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				count := 10.0
				if a == b && b == c {
					count = 20.0
				}
				addCount(t, ct, vl, map[int]int{0: a, 1: b, 2: c}, count)
			}
		}
	}

	mgr, err := manager.NewManager(vl, ct)
	require.NoError(t, err)

	model, err := mgr.ParseModel("AB:BC:AC")
	require.NoError(t, err)

	fit, err := mgr.Fit(model, manager.PolicyStrict)
	require.NoError(t, err)
	assert.True(t, fit.HasLoops)
	assert.Equal(t, "ipf", fit.Method)
	assert.Less(t, fit.IPFError, 1e-6)
	assert.Less(t, fit.IPFIterations, 200)
	assert.Less(t, fit.PValue, 0.05)
}

// TestFit_DirectedPrediction exercises spec.md §8 scenario 4.
func TestFit_DirectedPrediction(t *testing.T) {
	vl := mustVarList(t, []rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
		{Name: "B", Abbrev: "B", Cardinality: 2},
		{Name: "Z", Abbrev: "Z", Cardinality: 2, IsDependent: true},
	})
	ct := table.New(vl.KeySize())
	data := []struct {
		a, b, z int
		count   float64
	}{
		{0, 0, 0, 30}, {0, 0, 1, 10},
		{0, 1, 0, 25}, {0, 1, 1, 15},
		{1, 0, 0, 10}, {1, 0, 1, 30},
		{1, 1, 0, 12}, {1, 1, 1, 28},
	}
	for _, d := range data {
		addCount(t, ct, vl, map[int]int{0: d.a, 1: d.b, 2: d.z}, d.count)
	}

	mgr, err := manager.NewManager(vl, ct)
	require.NoError(t, err)

	model, err := mgr.ParseModel("AZ:B")
	require.NoError(t, err)

	cond, err := mgr.ComputeConditionalDV(model)
	require.NoError(t, err)
	assert.Equal(t, int64(160), cond.Total)

	cm, err := mgr.ComputeConfusionMatrix(model)
	require.NoError(t, err)
	assert.InDelta(t, cond.Accuracy, cm.Accuracy, 1e-9)
	assert.Equal(t, 2, cm.Cardinality)
}

func TestParseModel_InternsRepeatedCalls(t *testing.T) {
	vl := abcVarList(t)
	ct := table.New(vl.KeySize())
	addCount(t, ct, vl, map[int]int{0: 0, 1: 0, 2: 0}, 1)
	mgr, err := manager.NewManager(vl, ct)
	require.NoError(t, err)

	first, err := mgr.ParseModel("AB:BC")
	require.NoError(t, err)
	second, err := mgr.ParseModel("AB:BC")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Greater(t, mgr.ModelCacheStats().Hits, int64(0))
}

func TestBottomAndTop(t *testing.T) {
	vl := abcVarList(t)
	ct := table.New(vl.KeySize())
	addCount(t, ct, vl, map[int]int{0: 0, 1: 0, 2: 0}, 1)
	mgr, err := manager.NewManager(vl, ct)
	require.NoError(t, err)

	bottom, err := mgr.Bottom()
	require.NoError(t, err)
	assert.Equal(t, "A:B:C", bottom.PrintName())

	top, err := mgr.Top()
	require.NoError(t, err)
	assert.Equal(t, "ABC", top.PrintName())
}

// TestProfiler_RecordsRealOperations asserts that enabling profiling
// actually accumulates samples from Fit's stages, ParseModel, and
// ComputeConditionalDV, not just from synthetic calls to Mark/Track.
func TestProfiler_RecordsRealOperations(t *testing.T) {
	vl := mustVarList(t, []rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
		{Name: "B", Abbrev: "B", Cardinality: 2},
		{Name: "Z", Abbrev: "Z", Cardinality: 2, IsDependent: true},
	})
	ct := table.New(vl.KeySize())
	addCount(t, ct, vl, map[int]int{0: 0, 1: 0, 2: 0}, 10)
	addCount(t, ct, vl, map[int]int{0: 0, 1: 1, 2: 1}, 10)
	addCount(t, ct, vl, map[int]int{0: 1, 1: 0, 2: 1}, 10)
	addCount(t, ct, vl, map[int]int{0: 1, 1: 1, 2: 0}, 10)
	mgr, err := manager.NewManager(vl, ct)
	require.NoError(t, err)
	mgr.SetProfiler(manager.NewProfiler(manager.ProfileDetailed))

	model, err := mgr.ParseModel("AB:Z")
	require.NoError(t, err)

	_, err = mgr.Fit(model, manager.PolicyPermissive)
	require.NoError(t, err)

	_, err = mgr.ComputeConditionalDV(model)
	require.NoError(t, err)

	totals := mgr.Profiler().Totals()
	assert.Greater(t, totals[manager.OpParseModel], time.Duration(0))
	assert.Greater(t, totals[manager.OpChordality], time.Duration(0))
	assert.Greater(t, totals[manager.OpJunctionTree], time.Duration(0))
	assert.Greater(t, totals[manager.OpBelief], time.Duration(0))
	assert.Greater(t, totals[manager.OpStatistics], time.Duration(0))
	assert.Greater(t, totals[manager.OpConditional], time.Duration(0))
	assert.Greater(t, mgr.Profiler().Total(), time.Duration(0))
	assert.NotEmpty(t, mgr.Profiler().Samples())
}
