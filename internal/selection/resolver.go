// Package selection resolves which map marker was just clicked. The map
// surface exposes a monotonically increasing click counter per marker; the
// only reliable "a click happened now" signal is a counter delta between two
// consecutive snapshots, with ties broken by lowest index.
package selection

import (
	"log/slog"

	"github.com/lvasseur/go-landslides/internal/observability"
)

const none = -1

// Resolver tracks the last observed counter snapshot for one marker
// population. It must be Reset whenever the population is replaced (a new
// filter generation), because marker indices are not stable across
// recomputations. Not safe for concurrent use; the owning session serializes
// access.
type Resolver struct {
	last     []int
	resolved int
	metrics  *observability.Metrics
}

// NewResolver creates a resolver for a population of size markers, with an
// all-zero baseline and no selection. metrics may be nil.
func NewResolver(size int, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		last:     make([]int, size),
		resolved: none,
		metrics:  metrics,
	}
}

// Reset re-baselines the resolver for a new marker population: counters
// zeroed, selection cleared. Skipping this after a filter change yields stale
// selections, so the session layer calls it on every generation change.
func (r *Resolver) Reset(size int) {
	r.last = make([]int, size)
	r.resolved = none
	if r.metrics != nil {
		r.metrics.SelectionResets.Inc()
	}
}

// Observe compares a counter snapshot against the stored baseline. The first
// index whose counter strictly increased becomes the resolved selection; if
// none increased the prior selection stands. The snapshot is always stored so
// later deltas are measured against it.
//
// A snapshot whose length does not match the baseline means the caller failed
// to reset after a population change. Rather than index out of bounds, the
// resolver resets itself to the new size, logs, and diffs against the zero
// baseline.
func (r *Resolver) Observe(counts []int) (int, bool) {
	if len(counts) != len(r.last) {
		slog.Warn("selection snapshot size mismatch, resetting resolver",
			"expected", len(r.last), "got", len(counts))
		r.Reset(len(counts))
	}

	clicked := none
	for i, c := range counts {
		if c > r.last[i] {
			clicked = i
			break
		}
	}

	copy(r.last, counts)

	if clicked != none {
		r.resolved = clicked
		if r.metrics != nil {
			r.metrics.SelectionResolved.Inc()
		}
		return clicked, true
	}
	return r.resolved, r.resolved != none
}

// Selected returns the currently resolved marker index, if any.
func (r *Resolver) Selected() (int, bool) {
	return r.resolved, r.resolved != none
}

// PopulationSize returns the size of the marker population the resolver is
// baselined against.
func (r *Resolver) PopulationSize() int {
	return len(r.last)
}
