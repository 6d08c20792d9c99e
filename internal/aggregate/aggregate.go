// Package aggregate derives map markers and chart-ready series from one
// filtered result. Everything here is a pure function of its input.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/lvasseur/go-landslides/internal/filter"
	"github.com/lvasseur/go-landslides/internal/store"
)

// Popup carries the fields the map surface renders in a marker tooltip.
type Popup struct {
	Description string `json:"description"`
	SourceName  string `json:"source_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Date        string `json:"date"`
	Country     string `json:"country"`
}

// Marker is one map marker. Index is the record's position within its
// FilteredResult generation and is void once the result is recomputed.
type Marker struct {
	Index     int     `json:"index"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`
	Popup     Popup   `json:"popup"`
}

// Markers maps a result to markers one-to-one, preserving order.
func Markers(result *filter.Result) []Marker {
	markers := make([]Marker, 0, len(result.Records))
	for i, e := range result.Records {
		markers = append(markers, Marker{
			Index:     i,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Title:     e.Title,
			Popup: Popup{
				Description: e.Description,
				SourceName:  e.SourceName,
				PhotoURL:    e.PhotoURL,
				Date:        e.Date.Format("2006-01-02"),
				Country:     e.Country,
			},
		})
	}
	return markers
}

type Granularity string

const (
	ByYear  Granularity = "year"
	ByMonth Granularity = "month"
)

// CasualtyBucket is one calendar period of summed casualty counts.
type CasualtyBucket struct {
	Period     string `json:"period"` // "2006" or "2006-01"
	Fatalities int    `json:"fatalities"`
	Injuries   int    `json:"injuries"`
}

// CasualtiesByPeriod groups the result by calendar period and sums both
// casualty counts. Periods sort ascending; periods with no records are
// omitted, not zero-filled.
func CasualtiesByPeriod(result *filter.Result, g Granularity) ([]CasualtyBucket, error) {
	var keyFor func(t time.Time) string
	switch g {
	case ByYear:
		keyFor = func(t time.Time) string { return t.Format("2006") }
	case ByMonth:
		keyFor = func(t time.Time) string { return t.Format("2006-01") }
	default:
		return nil, fmt.Errorf("unknown granularity %q", g)
	}

	sums := make(map[string]*CasualtyBucket)
	for _, e := range result.Records {
		key := keyFor(e.Date)
		b, ok := sums[key]
		if !ok {
			b = &CasualtyBucket{Period: key}
			sums[key] = b
		}
		b.Fatalities += e.Fatalities
		b.Injuries += e.Injuries
	}

	buckets := make([]CasualtyBucket, 0, len(sums))
	for _, b := range sums {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets, nil
}

// OtherLabel names the synthetic bucket holding counts beyond rank n.
const OtherLabel = "Other"

type BreakdownBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Breakdown is a top-N categorical distribution. NoData is set instead of
// returning an empty bucket list so the caller can render a "no data for
// selected filters" placeholder.
type Breakdown struct {
	Field   string            `json:"field"`
	Buckets []BreakdownBucket `json:"buckets"`
	NoData  bool              `json:"no_data,omitempty"`
}

// TopBreakdown counts occurrences of a facet field across the result and
// returns the n most frequent labels plus a trailing "Other" bucket summing
// the rest. Ties at the boundary keep first-encountered order (stable sort).
func TopBreakdown(result *filter.Result, field string, n int) (Breakdown, error) {
	var pick func(i int) string
	switch field {
	case store.FieldCategory:
		pick = func(i int) string { return result.Records[i].Category }
	case store.FieldTrigger:
		pick = func(i int) string { return result.Records[i].Trigger }
	case store.FieldSize:
		pick = func(i int) string { return string(result.Records[i].Size) }
	case store.FieldCountry:
		pick = func(i int) string { return result.Records[i].Country }
	default:
		return Breakdown{}, fmt.Errorf("unknown breakdown field %q", field)
	}
	if n <= 0 {
		n = 5
	}

	counts := make(map[string]int)
	var order []string // first-encounter order, the tiebreak for the stable sort
	for i := range result.Records {
		label := pick(i)
		if label == "" {
			continue
		}
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
	}

	if len(order) == 0 {
		return Breakdown{Field: field, NoData: true}, nil
	}

	buckets := make([]BreakdownBucket, 0, len(order))
	for _, label := range order {
		buckets = append(buckets, BreakdownBucket{Label: label, Count: counts[label]})
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Count > buckets[j].Count })

	if len(buckets) > n {
		other := 0
		for _, b := range buckets[n:] {
			other += b.Count
		}
		buckets = append(buckets[:n:n], BreakdownBucket{Label: OtherLabel, Count: other})
	}

	return Breakdown{Field: field, Buckets: buckets}, nil
}
