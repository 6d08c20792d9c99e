package repository

import (
	"context"

	"github.com/lvasseur/go-landslides/internal/models"
)

// EventRepository persists the validated landslide catalog. The server writes
// it once at startup and can rebuild the in-memory store from it when the CSV
// export is unavailable.
type EventRepository interface {
	Add(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Exists(ctx context.Context, id string) (bool, error)
	// ListEvents returns all events in insertion order, the order the store
	// relies on for stable marker indices.
	ListEvents(ctx context.Context) ([]models.Event, error)
	Count(ctx context.Context) (int64, error)
}
