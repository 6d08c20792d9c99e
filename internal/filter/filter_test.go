package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvasseur/go-landslides/internal/models"
	"github.com/lvasseur/go-landslides/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	events := []models.Event{
		{ID: "1", Date: time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC), Category: "rock_fall", Trigger: "downpour", Size: models.SizeSmall},
		{ID: "2", Date: time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC), Category: "mudslide", Trigger: "unknown", Size: models.SizeLarge},
		{ID: "3", Date: time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), Category: "rock_fall", Trigger: "rain", Size: models.SizeMedium},
	}
	s, err := store.New(events)
	require.NoError(t, err)
	return s
}

func ids(r *Result) []string {
	out := make([]string, 0, len(r.Records))
	for _, e := range r.Records {
		out = append(out, e.ID)
	}
	return out
}

func TestApply_YearAndCategory(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	result, err := e.Apply(Criteria{
		Years:      YearRange{Min: 2015, Max: 2015},
		Categories: []string{"rock_fall"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(result)) // store order preserved
}

func TestApply_AllFacetsConjunctive(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	result, err := e.Apply(Criteria{
		Years:      YearRange{Min: 2010, Max: 2020},
		Categories: []string{"rock_fall"},
		Triggers:   []string{"rain"},
		Sizes:      []string{"medium", "large"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(result))
}

func TestApply_EmptyFacetMatchesAll(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	result, err := e.Apply(Criteria{Years: YearRange{Min: 2000, Max: 2020}})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(result))
}

func TestApply_EmptyIntersectionIsNotAnError(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	result, err := e.Apply(Criteria{
		Years:      YearRange{Min: 2015, Max: 2015},
		Categories: []string{"mudslide"}, // only in 2016
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestApply_YearRangeOutsideObservedRange(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	result, err := e.Apply(Criteria{Years: YearRange{Min: 1950, Max: 1960}})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestApply_InvalidYearRange(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	_, err := e.Apply(Criteria{Years: YearRange{Min: 2020, Max: 2015}})
	assert.Error(t, err)
}

func TestApply_MemoizesIdenticalCriteria(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	c := Criteria{Years: YearRange{Min: 2015, Max: 2016}, Categories: []string{"rock_fall", "mudslide"}}
	first, err := e.Apply(c)
	require.NoError(t, err)

	// Same criteria with facet members in a different order hits the memo and
	// returns the same instance with the same generation.
	second, err := e.Apply(Criteria{Years: YearRange{Min: 2015, Max: 2016}, Categories: []string{"mudslide", "rock_fall"}})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, first.Generation, second.Generation)
}

func TestApply_RecomputationBumpsGeneration(t *testing.T) {
	e := NewEngine(newTestStore(t), nil)

	first, err := e.Apply(Criteria{Years: YearRange{Min: 2015, Max: 2015}})
	require.NoError(t, err)
	second, err := e.Apply(Criteria{Years: YearRange{Min: 2016, Max: 2016}})
	require.NoError(t, err)

	assert.NotEqual(t, first.Generation, second.Generation)
}

func TestApply_Idempotent(t *testing.T) {
	c := Criteria{Years: YearRange{Min: 2015, Max: 2016}, Triggers: []string{"downpour", "rain"}}

	// Two independent engines: value-equal results even without the memo.
	a, err := NewEngine(newTestStore(t), nil).Apply(c)
	require.NoError(t, err)
	b, err := NewEngine(newTestStore(t), nil).Apply(c)
	require.NoError(t, err)

	assert.Equal(t, a.Records, b.Records)
}
