package belief_test

import (
	"testing"

	"github.com/katalvlaran/reconstruct/belief"
	"github.com/katalvlaran/reconstruct/junctiontree"
	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/katalvlaran/reconstruct/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abcVarList(t *testing.T) *rakey.VariableList {
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

// TestRun_ChainModelReconstructsUniformJoint exercises spec.md §8 scenario
// 2 (the chain model AB:BC): against uniform data, belief propagation on
// the chain's junction tree should reconstruct the original uniform
// joint exactly.
func TestRun_ChainModelReconstructsUniformJoint(t *testing.T) {
	vl := abcVarList(t)
	observed := uniformObserved(t, vl)
	m, err := relation.ParseModel(vl, "AB:BC")
	require.NoError(t, err)

	forest, err := junctiontree.Build(m)
	require.NoError(t, err)

	result, err := belief.Run(forest, observed, vl)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, 0.0, result.Error)

	require.Equal(t, 8, result.Joint.Len())
	for _, tp := range result.Joint.Tuples() {
		assert.InDelta(t, 0.125, tp.Value, 1e-9)
	}
	assert.InDelta(t, 1.0, result.Joint.Sum(), 1e-9)
}

func TestRun_SaturatedModelIsIdentity(t *testing.T) {
	vl := abcVarList(t)
	observed := uniformObserved(t, vl)
	top, err := relation.Top(vl)
	require.NoError(t, err)

	forest, err := junctiontree.Build(top)
	require.NoError(t, err)

	result, err := belief.Run(forest, observed, vl)
	require.NoError(t, err)
	assert.Equal(t, observed.Len(), result.Joint.Len())
	for _, tp := range result.Joint.Tuples() {
		assert.InDelta(t, 0.125, tp.Value, 1e-9)
	}
}

func TestRun_IndependentSingletonsReconstructsProduct(t *testing.T) {
	vl := abcVarList(t)
	observed := uniformObserved(t, vl)
	m, err := relation.ParseModel(vl, "A:B:C")
	require.NoError(t, err)

	forest, err := junctiontree.Build(m)
	require.NoError(t, err)
	require.Len(t, forest.Trees, 3)

	result, err := belief.Run(forest, observed, vl)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Joint.Sum(), 1e-9)
	for _, tp := range result.Joint.Tuples() {
		assert.InDelta(t, 0.125, tp.Value, 1e-9)
	}
}
