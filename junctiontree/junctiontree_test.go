package junctiontree_test

import (
	"testing"

	"github.com/katalvlaran/reconstruct/junctiontree"
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
		{Name: "Gamma", Abbrev: "C", Cardinality: 2},
	})
	require.NoError(t, err)
	return vl
}

func TestBuild_ChainModelProducesSingleTree(t *testing.T) {
	vl := abcVarList(t)
	m, err := relation.ParseModel(vl, "AB:BC")
	require.NoError(t, err)

	forest, err := junctiontree.Build(m)
	require.NoError(t, err)
	require.Len(t, forest.Trees, 1)

	tree := forest.Trees[0]
	require.Len(t, tree.Cliques(), 2)
	assert.Equal(t, -1, tree.Parent(0))
	assert.Len(t, tree.PreOrder(), 2)
	assert.Len(t, tree.PostOrder(), 2)
	assert.NotNil(t, tree.Separator(1))
	assert.Equal(t, 1, tree.Separator(1).VariableCount())
}

func TestBuild_SingleCliqueModel(t *testing.T) {
	vl := abcVarList(t)
	top, err := relation.Top(vl)
	require.NoError(t, err)

	forest, err := junctiontree.Build(top)
	require.NoError(t, err)
	require.Len(t, forest.Trees, 1)
	assert.Equal(t, []int{0}, forest.Trees[0].PreOrder())
}

func TestBuild_DisjointRelationsYieldOneTreePerComponent(t *testing.T) {
	vl := abcVarList(t)
	m, err := relation.ParseModel(vl, "A:B:C")
	require.NoError(t, err)

	forest, err := junctiontree.Build(m)
	require.NoError(t, err)
	assert.Len(t, forest.Trees, 3)
	for _, tree := range forest.Trees {
		assert.Len(t, tree.Cliques(), 1)
		assert.Equal(t, -1, tree.Parent(0))
	}
}

func TestBuild_PreOrderAndPostOrderAreReverses(t *testing.T) {
	vl, err := rakey.NewVariableList([]rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
		{Name: "B", Abbrev: "B", Cardinality: 2},
		{Name: "C", Abbrev: "C", Cardinality: 2},
		{Name: "D", Abbrev: "D", Cardinality: 2},
	})
	require.NoError(t, err)
	m, err := relation.ParseModel(vl, "AB:BC:CD")
	require.NoError(t, err)

	forest, err := junctiontree.Build(m)
	require.NoError(t, err)
	require.Len(t, forest.Trees, 1)
	tree := forest.Trees[0]
	pre := tree.PreOrder()
	post := tree.PostOrder()
	require.Len(t, pre, 3)
	for i, v := range pre {
		assert.Equal(t, v, post[len(post)-1-i])
	}
}
