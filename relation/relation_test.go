package relation_test

import (
	"testing"

	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abcVarList(t *testing.T) *rakey.VariableList {
	t.Helper()
	vl, err := rakey.NewVariableList([]rakey.Variable{
		{Name: "Alpha", Abbrev: "A", Cardinality: 2},
		{Name: "Beta", Abbrev: "B", Cardinality: 2},
		{Name: "Gamma", Abbrev: "C", Cardinality: 3},
	})
	require.NoError(t, err)
	return vl
}

func TestRelation_NCAndDF(t *testing.T) {
	vl := abcVarList(t)
	r, err := relation.New(vl, []int{0, 2}) // A (card 2) * C (card 3)
	require.NoError(t, err)
	assert.Equal(t, int64(6), r.NC())
	assert.Equal(t, int64(5), r.DF())
	assert.Equal(t, "AC", r.PrintName())
}

func TestRelation_DedupAndSortOnConstruction(t *testing.T) {
	vl := abcVarList(t)
	r, err := relation.New(vl, []int{2, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, r.Vars())
}

func TestRelation_EmptyRejected(t *testing.T) {
	vl := abcVarList(t)
	_, err := relation.New(vl, nil)
	assert.ErrorIs(t, err, relation.ErrEmptyRelation)
}

func TestRelation_SetOps(t *testing.T) {
	vl := abcVarList(t)
	ab, err := relation.New(vl, []int{0, 1})
	require.NoError(t, err)
	bc, err := relation.New(vl, []int{1, 2})
	require.NoError(t, err)

	assert.True(t, ab.Overlap(bc))

	u, err := ab.Union(bc)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, u.Vars())

	in, err := ab.Intersection(bc)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, in.Vars())

	d, err := ab.Difference(bc)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, d.Vars())

	a, err := relation.New(vl, []int{0})
	require.NoError(t, err)
	assert.True(t, a.Subset(ab))
	assert.False(t, ab.Subset(a))
}
