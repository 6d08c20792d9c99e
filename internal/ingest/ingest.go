// Package ingest persists the loaded catalog into the event repository. It
// runs to completion at startup, before the server accepts traffic; nothing
// here keeps running in the background afterwards.
package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/lvasseur/go-landslides/internal/models"
	"github.com/lvasseur/go-landslides/internal/repository"
	"github.com/lvasseur/go-landslides/internal/worker"
)

type Manager struct {
	repo       repository.EventRepository
	numWorkers int
	bufferSize int
}

func NewManager(repo repository.EventRepository, numWorkers, bufferSize int) *Manager {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Manager{
		repo:       repo,
		numWorkers: numWorkers,
		bufferSize: bufferSize,
	}
}

// Run upserts every event through a worker pool and returns how many were
// newly persisted. Individual failures are logged and skipped; the catalog in
// memory remains authoritative either way.
func (m *Manager) Run(ctx context.Context, events []models.Event) int {
	var added atomic.Int64

	processor := func(ctx context.Context, event *models.Event) error {
		exists, err := m.repo.Exists(ctx, event.ID)
		if err != nil {
			slog.Error("error checking event existence", "id", event.ID, "error", err)
			return err
		}
		if exists {
			return nil
		}

		if err := m.repo.Add(ctx, event); err != nil {
			slog.Error("error persisting event", "id", event.ID, "error", err)
			return err
		}
		added.Add(1)
		return nil
	}

	pool := worker.NewPool(m.numWorkers, m.bufferSize, processor)
	pool.Start(ctx)
	for i := range events {
		pool.Submit(&events[i])
	}
	pool.Stop()

	slog.Info("catalog persisted", "total", len(events), "added", added.Load())
	return int(added.Load())
}
