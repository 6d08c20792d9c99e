package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lvasseur/go-landslides/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			event_date DATETIME NOT NULL,
			category TEXT,
			trigger_cause TEXT,
			size TEXT,
			fatalities INTEGER NOT NULL DEFAULT 0,
			injuries INTEGER NOT NULL DEFAULT 0,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			title TEXT,
			description TEXT,
			source_name TEXT,
			source_url TEXT,
			photo_url TEXT,
			country TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date);
		CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
		CREATE INDEX IF NOT EXISTS idx_events_trigger ON events(trigger_cause);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Add(ctx context.Context, e *models.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (
			id, event_date, category, trigger_cause, size, fatalities, injuries,
			latitude, longitude, title, description, source_name, source_url,
			photo_url, country
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		e.ID, e.Date.Format(time.RFC3339), e.Category, e.Trigger, string(e.Size),
		e.Fatalities, e.Injuries, e.Latitude, e.Longitude, e.Title, e.Description,
		e.SourceName, e.SourceURL, e.PhotoURL, e.Country,
	)
	if err != nil {
		return fmt.Errorf("error inserting event %s: %w", e.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching event %s: %w", id, err)
	}
	return &e, nil
}

func (s *SQLiteDB) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking event %s: %w", id, err)
	}
	return true, nil
}

func (s *SQLiteDB) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" FROM events ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLiteDB) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return n, nil
}

const selectColumns = `SELECT
	id, event_date, category, trigger_cause, size, fatalities, injuries,
	latitude, longitude, title, description, source_name, source_url,
	photo_url, country`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(r rowScanner) (models.Event, error) {
	var e models.Event
	var date, size string
	if err := r.Scan(
		&e.ID, &date, &e.Category, &e.Trigger, &size, &e.Fatalities, &e.Injuries,
		&e.Latitude, &e.Longitude, &e.Title, &e.Description, &e.SourceName,
		&e.SourceURL, &e.PhotoURL, &e.Country,
	); err != nil {
		return models.Event{}, err
	}

	parsed, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return models.Event{}, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	e.Date = parsed
	e.Size = models.Size(size)
	return e, nil
}
