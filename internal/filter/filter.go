// Package filter applies the faceted catalog filter: a year range plus
// optional category, trigger, and size sets, combined conjunctively across
// facets and disjunctively within one.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lvasseur/go-landslides/internal/models"
	"github.com/lvasseur/go-landslides/internal/observability"
	"github.com/lvasseur/go-landslides/internal/store"
)

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Criteria is one filter configuration. An empty facet slice matches all
// records on that facet.
type Criteria struct {
	Years      YearRange `json:"years"`
	Categories []string  `json:"categories,omitempty"`
	Triggers   []string  `json:"triggers,omitempty"`
	Sizes      []string  `json:"sizes,omitempty"`
}

func (c Criteria) Validate() error {
	if c.Years.Min > c.Years.Max {
		return fmt.Errorf("year range min %d exceeds max %d", c.Years.Min, c.Years.Max)
	}
	return nil
}

// key builds a canonical representation so criteria that differ only in facet
// member order memoize to the same entry.
func (c Criteria) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-%d", c.Years.Min, c.Years.Max)
	for _, facet := range [][]string{c.Categories, c.Triggers, c.Sizes} {
		sorted := append([]string(nil), facet...)
		sort.Strings(sorted)
		b.WriteByte('|')
		b.WriteString(strings.Join(sorted, ","))
	}
	return b.String()
}

// Result is one generation of filtered output. Records is a subsequence of
// the store in original order. Generation identifies the recomputation that
// produced it; marker indices are only meaningful within one generation.
type Result struct {
	Records    []models.Event
	Criteria   Criteria
	Generation uint64
}

func (r *Result) Len() int {
	return len(r.Records)
}

// Engine filters the catalog. The last result is memoized against its
// canonical criteria key, since the UI re-applies unchanged criteria on every
// interaction.
type Engine struct {
	store   *store.Store
	metrics *observability.Metrics

	mu      sync.Mutex
	lastKey string
	last    *Result
	gen     uint64
}

// NewEngine creates an engine over a loaded store. metrics may be nil.
func NewEngine(s *store.Store, metrics *observability.Metrics) *Engine {
	return &Engine{store: s, metrics: metrics}
}

// Apply runs the filter in O(n) over the store. Identical criteria return the
// memoized Result instance; a recomputation gets a fresh generation number.
// An empty survivor set is a valid result, not an error.
func (e *Engine) Apply(c Criteria) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	key := c.key()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.last != nil && e.lastKey == key {
		if e.metrics != nil {
			e.metrics.FilterCacheHits.Inc()
		}
		return e.last, nil
	}

	categories := toSet(c.Categories)
	triggers := toSet(c.Triggers)
	sizes := toSet(c.Sizes)

	var records []models.Event
	for _, event := range e.store.All() {
		if y := event.Year(); y < c.Years.Min || y > c.Years.Max {
			continue
		}
		if categories != nil {
			if _, ok := categories[event.Category]; !ok {
				continue
			}
		}
		if triggers != nil {
			if _, ok := triggers[event.Trigger]; !ok {
				continue
			}
		}
		if sizes != nil {
			if _, ok := sizes[string(event.Size)]; !ok {
				continue
			}
		}
		records = append(records, event)
	}

	e.gen++
	result := &Result{
		Records:    records,
		Criteria:   c,
		Generation: e.gen,
	}
	e.lastKey = key
	e.last = result
	if e.metrics != nil {
		e.metrics.FilterApplies.Inc()
	}
	return result, nil
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
