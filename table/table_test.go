package table_test

import (
	"testing"

	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func varList(t *testing.T) *rakey.VariableList {
	t.Helper()
	vl, err := rakey.NewVariableList([]rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
		{Name: "B", Abbrev: "B", Cardinality: 2},
	})
	require.NoError(t, err)
	return vl
}

func key(t *testing.T, vl *rakey.VariableList, a, b int) *rakey.Key {
	t.Helper()
	k, err := rakey.BuildKey(vl, map[int]int{0: a, 1: b})
	require.NoError(t, err)
	return k
}

// TestContingencyTable_SortMergeStrictlyAscends is the invariant from
// spec.md §8: for every non-empty table, Sort+Merge yields strictly
// ascending keys.
func TestContingencyTable_SortMergeStrictlyAscends(t *testing.T) {
	vl := varList(t)
	tbl := table.New(vl.KeySize())
	require.NoError(t, tbl.Add(key(t, vl, 1, 0), 1))
	require.NoError(t, tbl.Add(key(t, vl, 0, 0), 2))
	require.NoError(t, tbl.Add(key(t, vl, 0, 0), 3))
	require.NoError(t, tbl.Add(key(t, vl, 1, 1), 4))

	tbl.Sort()
	tbl.Merge()

	tuples := tbl.Tuples()
	require.Len(t, tuples, 3)
	for i := 1; i < len(tuples); i++ {
		assert.Negative(t, tuples[i-1].Key.Compare(tuples[i].Key))
	}
	// (0,0) tuple absorbed the duplicate: 2+3=5.
	assert.Equal(t, float64(5), tuples[0].Value)
}

func TestContingencyTable_NormalizeIdempotent(t *testing.T) {
	vl := varList(t)
	tbl := table.New(vl.KeySize())
	require.NoError(t, tbl.Add(key(t, vl, 0, 0), 2))
	require.NoError(t, tbl.Add(key(t, vl, 1, 1), 2))

	tbl.Normalize()
	first := append([]table.Tuple(nil), tbl.Tuples()...)
	tbl.Normalize()
	for i, tp := range tbl.Tuples() {
		assert.InDelta(t, first[i].Value, tp.Value, 1e-12)
	}
	assert.InDelta(t, 1.0, tbl.Sum(), 1e-12)
}

func TestContingencyTable_NormalizeNoOpOnZeroSum(t *testing.T) {
	vl := varList(t)
	tbl := table.New(vl.KeySize())
	require.NoError(t, tbl.Add(key(t, vl, 0, 0), 0))
	tbl.Normalize()
	assert.Equal(t, float64(0), tbl.Sum())
}

func TestContingencyTable_FindRequiresSort(t *testing.T) {
	vl := varList(t)
	tbl := table.New(vl.KeySize())
	require.NoError(t, tbl.Add(key(t, vl, 0, 0), 1))
	_, _, err := tbl.Find(key(t, vl, 0, 0))
	assert.ErrorIs(t, err, table.ErrNotSorted)

	tbl.Sort()
	idx, found, err := tbl.Find(key(t, vl, 0, 0))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

// TestContingencyTable_ProjectPreservesSum is the invariant from spec.md
// §8: sum(T.project(V')) == sum(T).
func TestContingencyTable_ProjectPreservesSum(t *testing.T) {
	vl := varList(t)
	tbl := table.New(vl.KeySize())
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			require.NoError(t, tbl.Add(key(t, vl, a, b), float64(a+b+1)))
		}
	}
	mask, err := rakey.BuildMask(vl, []int{0})
	require.NoError(t, err)
	projected, err := tbl.Project(mask)
	require.NoError(t, err)
	assert.InDelta(t, tbl.Sum(), projected.Sum(), 1e-9)
}

// TestContingencyTable_ProjectIsIdempotent is the invariant from spec.md
// §8: T.project(V').project(V') ≡ T.project(V').
func TestContingencyTable_ProjectIsIdempotent(t *testing.T) {
	vl := varList(t)
	tbl := table.New(vl.KeySize())
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			require.NoError(t, tbl.Add(key(t, vl, a, b), float64(a+b+1)))
		}
	}
	mask, err := rakey.BuildMask(vl, []int{0})
	require.NoError(t, err)
	once, err := tbl.Project(mask)
	require.NoError(t, err)
	twice, err := once.Project(mask)
	require.NoError(t, err)

	require.Equal(t, once.Len(), twice.Len())
	for i, tp := range once.Tuples() {
		assert.True(t, tp.Key.Equal(twice.Tuples()[i].Key))
		assert.InDelta(t, tp.Value, twice.Tuples()[i].Value, 1e-9)
	}
}

func TestContingencyTable_ProjectionCallsInstrumentation(t *testing.T) {
	vl := varList(t)
	tbl := table.New(vl.KeySize())
	require.NoError(t, tbl.Add(key(t, vl, 0, 0), 1))
	mask, err := rakey.BuildMask(vl, []int{0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), tbl.ProjectionCalls())
	_, err = tbl.Project(mask)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tbl.ProjectionCalls())
}
