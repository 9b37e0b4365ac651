package ipf_test

import (
	"testing"

	"github.com/katalvlaran/reconstruct/ipf"
	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/katalvlaran/reconstruct/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleVarList(t *testing.T) *rakey.VariableList {
	t.Helper()
	vl, err := rakey.NewVariableList([]rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
		{Name: "B", Abbrev: "B", Cardinality: 2},
		{Name: "C", Abbrev: "C", Cardinality: 2},
	})
	require.NoError(t, err)
	return vl
}

func uniformObserved(t *testing.T, vl *rakey.VariableList) *table.ContingencyTable {
	t.Helper()
	ct := table.New(vl.KeySize())
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				k, err := rakey.BuildKey(vl, map[int]int{0: a, 1: b, 2: c})
				require.NoError(t, err)
				require.NoError(t, ct.Add(k, 1.0))
			}
		}
	}
	ct.Sort()
	ct.Merge()
	ct.Normalize()
	return ct
}

// TestFit_UniformDataConvergesImmediately exercises the triangle model
// (AB:BC:AC) from spec.md §8 scenario 3, which has loops and requires
// IPF. Against perfectly uniform data the fit should already equal the
// target marginals, converging within a handful of iterations.
func TestFit_UniformDataConvergesImmediately(t *testing.T) {
	vl := triangleVarList(t)
	observed := uniformObserved(t, vl)
	m, err := relation.ParseModel(vl, "AB:BC:AC")
	require.NoError(t, err)

	cfg := ipf.DefaultConfig()
	result, err := ipf.Fit(observed, m.Relations(), vl, cfg)
	require.NoError(t, err)

	assert.Less(t, result.Error, cfg.Tolerance)
	assert.LessOrEqual(t, result.Iterations, cfg.MaxIterations)
	assert.InDelta(t, 1.0, result.Fitted.Sum(), 1e-9)
}

func TestFit_NoRelationsErrors(t *testing.T) {
	vl := triangleVarList(t)
	observed := uniformObserved(t, vl)

	_, err := ipf.Fit(observed, nil, vl, ipf.DefaultConfig())
	assert.ErrorIs(t, err, ipf.ErrNoRelations)
}

func TestFit_RaisesConvergenceErrorWhenCapped(t *testing.T) {
	vl := triangleVarList(t)
	observed := uniformObserved(t, vl)
	m, err := relation.ParseModel(vl, "AB:BC:AC")
	require.NoError(t, err)

	cfg := ipf.Config{MaxIterations: 1, Tolerance: -1, RaiseOnNonConvergence: true}
	_, err = ipf.Fit(observed, m.Relations(), vl, cfg)
	var convErr *ipf.ConvergenceError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 1, convErr.Iterations)
}

func TestFit_ProgressCallbackInvoked(t *testing.T) {
	vl := triangleVarList(t)
	observed := uniformObserved(t, vl)
	m, err := relation.ParseModel(vl, "AB:BC:AC")
	require.NoError(t, err)

	var calls int
	cfg := ipf.Config{MaxIterations: 5, Tolerance: -1, ReportingInterval: 1, ProgressCallback: func(ipf.ProgressEvent) {
		calls++
	}}
	_, err = ipf.Fit(observed, m.Relations(), vl, cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
}
