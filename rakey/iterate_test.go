package rakey_test

import (
	"testing"

	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/stretchr/testify/assert"
)

func TestStateEnumerator_FastFirstOrder(t *testing.T) {
	se := rakey.NewStateEnumerator([]int{2, 3}, false)
	var got [][]int
	for {
		s, ok := se.Next()
		if !ok {
			break
		}
		got = append(got, s)
	}
	want := [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	assert.Equal(t, want, got)
}

func TestStateEnumerator_FastLastOrder(t *testing.T) {
	se := rakey.NewStateEnumerator([]int{2, 3}, true)
	var got [][]int
	for {
		s, ok := se.Next()
		if !ok {
			break
		}
		got = append(got, s)
	}
	want := [][]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}}
	assert.Equal(t, want, got)
}

func TestStateEnumerator_RestartableViaReset(t *testing.T) {
	se := rakey.NewStateEnumerator([]int{2}, false)
	first, _ := se.Next()
	_, _ = se.Next()
	_, ok := se.Next()
	assert.False(t, ok)

	se.Reset()
	again, ok := se.Next()
	assert.True(t, ok)
	assert.Equal(t, first, again)
}

func TestStateEnumerator_Total(t *testing.T) {
	se := rakey.NewStateEnumerator([]int{2, 3, 4}, false)
	assert.Equal(t, int64(24), se.Total())
}
