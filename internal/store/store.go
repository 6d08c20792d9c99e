package store

import (
	"fmt"
	"sort"

	"github.com/lvasseur/go-landslides/internal/models"
)

// Facet field names accepted by DistinctValues.
const (
	FieldCategory = "landslide_category"
	FieldTrigger  = "landslide_trigger"
	FieldSize     = "landslide_size"
	FieldCountry  = "country_name"
)

// Store is the immutable in-memory event catalog. It is built once at startup
// and never mutated; reloading replaces it wholesale. Read-only access makes it
// safe to share across concurrent filter computations.
type Store struct {
	events  []models.Event
	byID    map[string]int
	minYear int
	maxYear int
}

// New builds a Store from already-validated events. Duplicate IDs are an error
// because the identifier is the only stable handle across sessions.
func New(events []models.Event) (*Store, error) {
	byID := make(map[string]int, len(events))
	minYear, maxYear := 0, 0
	for i, e := range events {
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate event id %q", e.ID)
		}
		byID[e.ID] = i

		y := e.Year()
		if i == 0 || y < minYear {
			minYear = y
		}
		if i == 0 || y > maxYear {
			maxYear = y
		}
	}

	return &Store{
		events:  events,
		byID:    byID,
		minYear: minYear,
		maxYear: maxYear,
	}, nil
}

// All returns the full event sequence in load order. Callers must not modify
// the returned slice.
func (s *Store) All() []models.Event {
	return s.events
}

func (s *Store) Len() int {
	return len(s.events)
}

// At returns the event at position i in load order.
func (s *Store) At(i int) models.Event {
	return s.events[i]
}

// Get looks an event up by its identifier.
func (s *Store) Get(id string) (models.Event, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Event{}, false
	}
	return s.events[i], true
}

// YearBounds returns the earliest and latest event years observed in the
// catalog. Both are zero for an empty store.
func (s *Store) YearBounds() (int, int) {
	return s.minYear, s.maxYear
}

// DistinctValues returns the de-duplicated non-missing values of a facet
// field. Sizes come back in their ordinal ranking (unknown through
// catastrophic); the other facets are sorted lexically so dropdown contents
// stay stable across reloads.
func (s *Store) DistinctValues(field string) ([]string, error) {
	var pick func(e *models.Event) string
	switch field {
	case FieldCategory:
		pick = func(e *models.Event) string { return e.Category }
	case FieldTrigger:
		pick = func(e *models.Event) string { return e.Trigger }
	case FieldSize:
		pick = func(e *models.Event) string { return string(e.Size) }
	case FieldCountry:
		pick = func(e *models.Event) string { return e.Country }
	default:
		return nil, fmt.Errorf("unknown facet field %q", field)
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range s.events {
		v := pick(&s.events[i])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	if field == FieldSize {
		sort.Slice(values, func(i, j int) bool {
			return models.Size(values[i]).Rank() < models.Size(values[j]).Rank()
		})
	} else {
		sort.Strings(values)
	}
	return values, nil
}
