package rastat_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/rastat"
	"github.com/katalvlaran/reconstruct/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformTable(t *testing.T, keySize int, keys []*rakey.Key) *table.ContingencyTable {
	t.Helper()
	ct := table.New(keySize)
	p := 1.0 / float64(len(keys))
	for _, k := range keys {
		require.NoError(t, ct.Add(k, p))
	}
	ct.Sort()
	ct.Merge()
	return ct
}

func eightCellKeys(t *testing.T, vl *rakey.VariableList) []*rakey.Key {
	t.Helper()
	var keys []*rakey.Key
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				k, err := rakey.BuildKey(vl, map[int]int{0: a, 1: b, 2: c})
				require.NoError(t, err)
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// TestEntropy_UniformEightCellsIsThreeBits exercises spec.md §8's
// independence-three-variable scenario: data uniform over 8 cells has
// entropy exactly 3 bits.
func TestEntropy_UniformEightCellsIsThreeBits(t *testing.T) {
	vl, err := rakey.NewVariableList([]rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
		{Name: "B", Abbrev: "B", Cardinality: 2},
		{Name: "C", Abbrev: "C", Cardinality: 2},
	})
	require.NoError(t, err)
	keys := eightCellKeys(t, vl)
	ct := uniformTable(t, vl.KeySize(), keys)

	h := rastat.Entropy(ct)
	assert.InDelta(t, 3.0, h, 1e-9)
}

func TestEntropy_DegenerateTableIsZero(t *testing.T) {
	vl, err := rakey.NewVariableList([]rakey.Variable{
		{Name: "A", Abbrev: "A", Cardinality: 2},
	})
	require.NoError(t, err)
	k, err := rakey.BuildKey(vl, map[int]int{0: 0})
	require.NoError(t, err)
	ct := table.New(vl.KeySize())
	require.NoError(t, ct.Add(k, 1.0))
	ct.Sort()
	ct.Merge()

	assert.Equal(t, 0.0, rastat.Entropy(ct))
}

func TestTransmission_ReducesWithSharedEntropy(t *testing.T) {
	assert.InDelta(t, 1.0, rastat.Transmission(3.0, 2.0), 1e-9)
}

func TestModelDF_DecomposableInclusionExclusion(t *testing.T) {
	// Chain AB:BC over binary variables: clique NCs 4,4; separator NC 2.
	df := rastat.ModelDF([]int64{4, 4}, []int64{2})
	assert.Equal(t, int64(5), df) // 4+4-2-1
}

// TestModelDF_IndependentSingletons exercises spec.md §8's
// independence-three-variable scenario: DF(A:B:C) = 3 for three disjoint
// binary singletons (three components, zero separators).
func TestModelDF_IndependentSingletons(t *testing.T) {
	df := rastat.ModelDF([]int64{2, 2, 2}, nil)
	assert.Equal(t, int64(3), df)
}

func TestDeltaDF_SaturatedMinusModel(t *testing.T) {
	assert.Equal(t, int64(2), rastat.DeltaDF(7, 5))
}

func TestLR_ZeroWhenEntropiesEqual(t *testing.T) {
	assert.Equal(t, 0.0, rastat.LR(2.0, 2.0, 100))
}

func TestPValue_ZeroDFReturnsOne(t *testing.T) {
	assert.Equal(t, 1.0, rastat.PValue(5.0, 0))
}

func TestPValue_LargeLRIsSignificant(t *testing.T) {
	p := rastat.PValue(50.0, 1)
	assert.Less(t, p, 0.01)
}

func TestAICBIC_SaturatedModelIsZero(t *testing.T) {
	assert.Equal(t, 0.0, rastat.AIC(0, 0))
	assert.Equal(t, 0.0, rastat.BIC(0, 0, 100))
}

func TestPower_ReturnsProbabilityInRange(t *testing.T) {
	p := rastat.Power(20.0, 3, 0.05)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
	assert.False(t, math.IsNaN(p))
}
