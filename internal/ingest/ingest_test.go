package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/lvasseur/go-landslides/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockEventRepo implements repository.EventRepository for testing
type mockEventRepo struct {
	mu     sync.Mutex
	events map[string]models.Event
	order  []string
}

func newMockRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]models.Event)}
}

func (m *mockEventRepo) Add(ctx context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.events[e.ID] = *e
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *mockEventRepo) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[id]
	return ok, nil
}

func (m *mockEventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Event, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.events[id])
	}
	return out, nil
}

func (m *mockEventRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.events)), nil
}

func sampleEvents(n int) []models.Event {
	events := make([]models.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.Event{
			ID:   string(rune('a' + i)),
			Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return events
}

func TestRun_PersistsAllEvents(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(repo, 2, 10)

	added := mgr.Run(context.Background(), sampleEvents(5))

	if added != 5 {
		t.Errorf("expected 5 added, got %d", added)
	}
	n, _ := repo.Count(context.Background())
	if n != 5 {
		t.Errorf("expected 5 persisted, got %d", n)
	}
}

func TestRun_SkipsExistingEvents(t *testing.T) {
	repo := newMockRepo()
	events := sampleEvents(4)
	repo.Add(context.Background(), &events[0])
	repo.Add(context.Background(), &events[1])

	mgr := NewManager(repo, 2, 10)
	added := mgr.Run(context.Background(), events)

	if added != 2 {
		t.Errorf("expected 2 newly added, got %d", added)
	}
}

func TestRun_EmptyCatalog(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(repo, 2, 10)

	if added := mgr.Run(context.Background(), nil); added != 0 {
		t.Errorf("expected 0 added, got %d", added)
	}
}
