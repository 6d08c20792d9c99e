package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lvasseur/go-landslides/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func sampleEvent(id string) *models.Event {
	return &models.Event{
		ID:          id,
		Date:        time.Date(2015, 4, 7, 0, 0, 0, 0, time.UTC),
		Category:    "rock_fall",
		Trigger:     "downpour",
		Size:        models.SizeMedium,
		Fatalities:  2,
		Injuries:    1,
		Latitude:    27.7,
		Longitude:   85.3,
		Title:       "Rockfall near " + id,
		Description: "A rockfall blocked the highway.",
		SourceName:  "Kathmandu Post",
		SourceURL:   "https://example.com/" + id,
		Country:     "Nepal",
	}
}

func TestSQLiteDB_AddAndGetEvent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	event := sampleEvent("ev_123")

	if err := db.Add(ctx, event); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, "ev_123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected event, got nil")
	}
	if got.Title != event.Title {
		t.Errorf("expected title %q, got %q", event.Title, got.Title)
	}
	if !got.Date.Equal(event.Date) {
		t.Errorf("expected date %v, got %v", event.Date, got.Date)
	}
	if got.Size != models.SizeMedium {
		t.Errorf("expected size medium, got %s", got.Size)
	}
}

func TestSQLiteDB_GetByID_Missing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing event, got %+v", got)
	}
}

func TestSQLiteDB_Exists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	exists, err := db.Exists(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected false for nonexistent ID")
	}

	if err := db.Add(ctx, sampleEvent("exists_test")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	exists, err = db.Exists(ctx, "exists_test")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected true for existing ID")
	}
}

func TestSQLiteDB_AddIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Add(ctx, sampleEvent("dup")); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := db.Add(ctx, sampleEvent("dup")); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	n, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 event after duplicate insert, got %d", n)
	}
}

func TestSQLiteDB_ListEvents_PreservesInsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if err := db.Add(ctx, sampleEvent(id)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	events, err := db.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, id := range ids {
		if events[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, events[i].ID)
		}
	}
}
