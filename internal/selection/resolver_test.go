package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve_FirstIncreaseResolves(t *testing.T) {
	r := NewResolver(3, nil)

	_, ok := r.Observe([]int{0, 0, 0})
	assert.False(t, ok)

	idx, ok := r.Observe([]int{0, 1, 0})
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestObserve_NewDeltaWinsOverOldSelection(t *testing.T) {
	r := NewResolver(3, nil)

	r.Observe([]int{0, 1, 0})
	idx, ok := r.Observe([]int{1, 1, 0})

	require.True(t, ok)
	assert.Equal(t, 0, idx) // the fresh delta, not the stale index 1
}

func TestObserve_NoIncreaseKeepsPriorSelection(t *testing.T) {
	r := NewResolver(2, nil)

	r.Observe([]int{0, 3})
	idx, ok := r.Observe([]int{0, 3})

	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestObserve_TieBrokenByLowestIndex(t *testing.T) {
	r := NewResolver(3, nil)

	idx, ok := r.Observe([]int{0, 1, 1})

	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestReset_ClearsSelectionAndBaseline(t *testing.T) {
	r := NewResolver(3, nil)
	r.Observe([]int{0, 5, 0})

	r.Reset(5)

	_, ok := r.Selected()
	assert.False(t, ok)
	assert.Equal(t, 5, r.PopulationSize())

	// A click after the reset resolves against the fresh zero baseline,
	// regardless of prior resolved state.
	idx, ok := r.Observe([]int{0, 0, 0, 1, 0})
	require.True(t, ok)
	assert.Equal(t, 3, idx)
}

func TestObserve_LengthMismatchResetsDefensively(t *testing.T) {
	r := NewResolver(3, nil)
	r.Observe([]int{0, 9, 0})

	// The caller swapped the marker population without resetting. The
	// resolver must not index out of bounds and must re-baseline.
	idx, ok := r.Observe([]int{0, 0, 0, 0, 2})

	require.True(t, ok)
	assert.Equal(t, 4, idx) // delta against the zeroed baseline
	assert.Equal(t, 5, r.PopulationSize())
}

func TestObserve_LengthMismatchWithoutClick(t *testing.T) {
	r := NewResolver(2, nil)
	r.Observe([]int{1, 0})

	_, ok := r.Observe([]int{0, 0, 0})
	// Everything zero after the defensive reset: no selection survives.
	assert.False(t, ok)
}

func TestObserve_CountersAreMonotonicDeltas(t *testing.T) {
	r := NewResolver(2, nil)

	idx, ok := r.Observe([]int{2, 0})
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	// Second click on the same marker: counter keeps growing.
	idx, ok = r.Observe([]int{3, 0})
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = r.Observe([]int{3, 1})
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}
