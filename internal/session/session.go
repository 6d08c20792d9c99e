// Package session holds per-view dashboard state: the active filter criteria,
// the current filtered result, and the marker selection resolver. Sessions are
// never shared between users; each owns its own resolver and criteria.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lvasseur/go-landslides/internal/filter"
	"github.com/lvasseur/go-landslides/internal/models"
	"github.com/lvasseur/go-landslides/internal/observability"
	"github.com/lvasseur/go-landslides/internal/selection"
	"github.com/lvasseur/go-landslides/internal/summary"
)

// Session is one user's dashboard view. The mutex serializes interactions so
// the resolver always sees snapshots in arrival order.
type Session struct {
	ID string

	mu         sync.Mutex
	engine     *filter.Engine
	result     *filter.Result
	resolver   *selection.Resolver
	lastActive time.Time
	clock      clockwork.Clock
}

// SetCriteria applies the criteria through the engine. When the result
// generation changed, the marker population was replaced and the resolver is
// reset to the new population size; a memoized hit keeps the selection.
func (s *Session) SetCriteria(c filter.Criteria) (*filter.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	result, err := s.engine.Apply(c)
	if err != nil {
		return nil, err
	}
	if s.result == nil || result.Generation != s.result.Generation {
		s.resolver.Reset(result.Len())
	}
	s.result = result
	return result, nil
}

// Result returns the session's current filtered result, or nil before the
// first SetCriteria.
func (s *Session) Result() *filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.result
}

// Click feeds one counter snapshot to the resolver and reports the resolved
// marker index, if any.
func (s *Session) Click(counts []int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.resolver.Observe(counts)
}

// Selected returns the event behind the resolved marker index.
// summary.ErrNoSelection when nothing is resolved or no result is active.
func (s *Session) Selected() (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	idx, ok := s.resolver.Selected()
	if !ok || s.result == nil || idx >= s.result.Len() {
		return models.Event{}, summary.ErrNoSelection
	}
	return s.result.Records[idx], nil
}

// touch must be called with the mutex held.
func (s *Session) touch() {
	s.lastActive = s.clock.Now()
}

// Manager creates, looks up, and expires sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	engine   *filter.Engine
	metrics  *observability.Metrics
	clock    clockwork.Clock
	ttl      time.Duration
}

// NewManager wires a manager over the shared filter engine. The clock is
// injectable so idle pruning is testable; metrics may be nil.
func NewManager(engine *filter.Engine, clock clockwork.Clock, ttl time.Duration, metrics *observability.Metrics) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		engine:   engine,
		metrics:  metrics,
		clock:    clock,
		ttl:      ttl,
	}
}

// Create registers a new session with an empty resolver and no result.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:         uuid.NewString(),
		engine:     m.engine,
		resolver:   selection.NewResolver(0, m.metrics),
		clock:      m.clock,
		lastActive: m.clock.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.ActiveSessions.Inc()
	}
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PruneIdle drops sessions idle longer than the TTL and returns how many were
// removed.
func (m *Manager) PruneIdle() int {
	cutoff := m.clock.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			pruned++
		}
	}
	if pruned > 0 && m.metrics != nil {
		m.metrics.ActiveSessions.Sub(float64(pruned))
	}
	return pruned
}

// Run prunes idle sessions on a ticker until the context is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := m.PruneIdle(); n > 0 {
				slog.Info("pruned idle sessions", "count", n)
			}
		}
	}
}
