package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lvasseur/go-landslides/internal/models"
)

// RawRow is one row of the catalog export, keyed by column header.
type RawRow map[string]string

// dateFormats covers the catalog export ("03/02/2007 12:00:00 AM") plus the
// ISO shapes seen in re-exported copies. Tried in order.
var dateFormats = []string{
	"01/02/2006 03:04:05 PM",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RowError describes why a single row was rejected during load.
type RowError struct {
	Line   int // 1-based data row number, excluding the header
	Field  string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: field %q: %s", e.Line, e.Field, e.Reason)
}

// Report summarizes a load: how many rows survived, how many were rejected
// and why. Rejections are row-local and never abort the load on their own.
type Report struct {
	Accepted int
	Rejected int
	Errors   []RowError
}

// Options tunes load behavior.
type Options struct {
	// MaxRejectFraction aborts the whole load when more than this fraction of
	// rows is rejected. Zero means the default of 0.5.
	MaxRejectFraction float64
}

const defaultMaxRejectFraction = 0.5

// Load validates and normalizes raw rows into a Store. Rows missing a
// mandatory field (id, date, lat, lon) or carrying a negative casualty count
// are rejected individually and reported; the load as a whole fails only when
// nothing survives or the reject fraction crosses the configured threshold.
func Load(rows []RawRow, opts Options) (*Store, *Report, error) {
	maxReject := opts.MaxRejectFraction
	if maxReject <= 0 {
		maxReject = defaultMaxRejectFraction
	}

	report := &Report{}
	events := make([]models.Event, 0, len(rows))
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		line := i + 1
		event, err := parseRow(row, line)
		if err == nil {
			if prev, dup := seen[event.ID]; dup {
				err = RowError{Line: line, Field: "event_id", Reason: fmt.Sprintf("duplicate of row %d", prev)}
			}
		}
		if err != nil {
			report.Rejected++
			if re, ok := err.(RowError); ok {
				report.Errors = append(report.Errors, re)
			}
			slog.Warn("rejected catalog row", "line", line, "error", err.Error())
			continue
		}
		seen[event.ID] = line
		events = append(events, event)
		report.Accepted++
	}

	if report.Accepted == 0 {
		return nil, report, fmt.Errorf("no usable rows in catalog (%d rejected)", report.Rejected)
	}
	if frac := float64(report.Rejected) / float64(len(rows)); frac > maxReject {
		return nil, report, fmt.Errorf("rejected %.0f%% of catalog rows, above the %.0f%% threshold",
			frac*100, maxReject*100)
	}

	s, err := New(events)
	if err != nil {
		return nil, report, err
	}
	return s, report, nil
}

func parseRow(row RawRow, line int) (models.Event, error) {
	id := strings.TrimSpace(row["event_id"])
	if id == "" {
		return models.Event{}, RowError{Line: line, Field: "event_id", Reason: "missing"}
	}

	date, err := parseDate(row["event_date"])
	if err != nil {
		return models.Event{}, RowError{Line: line, Field: "event_date", Reason: err.Error()}
	}

	lat, err := parseCoordinate(row["latitude"], -90, 90)
	if err != nil {
		return models.Event{}, RowError{Line: line, Field: "latitude", Reason: err.Error()}
	}
	lon, err := parseCoordinate(row["longitude"], -180, 180)
	if err != nil {
		return models.Event{}, RowError{Line: line, Field: "longitude", Reason: err.Error()}
	}

	fatalities, err := parseCount(row["fatality_count"])
	if err != nil {
		return models.Event{}, RowError{Line: line, Field: "fatality_count", Reason: err.Error()}
	}
	injuries, err := parseCount(row["injury_count"])
	if err != nil {
		return models.Event{}, RowError{Line: line, Field: "injury_count", Reason: err.Error()}
	}

	return models.Event{
		ID:          id,
		Date:        date,
		Category:    strings.TrimSpace(row["landslide_category"]),
		Trigger:     strings.TrimSpace(row["landslide_trigger"]),
		Size:        models.ParseSize(strings.TrimSpace(row["landslide_size"])),
		Fatalities:  fatalities,
		Injuries:    injuries,
		Latitude:    lat,
		Longitude:   lon,
		Title:       strings.TrimSpace(row["event_title"]),
		Description: strings.TrimSpace(row["event_description"]),
		SourceName:  strings.TrimSpace(row["source_name"]),
		SourceURL:   strings.TrimSpace(row["source_link"]),
		PhotoURL:    strings.TrimSpace(row["photo_link"]),
		Country:     strings.TrimSpace(row["country_name"]),
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", raw)
}

func parseCoordinate(raw string, min, max float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("missing")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("unparsable value %q", raw)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("value %v outside [%v, %v]", v, min, max)
	}
	return v, nil
}

// parseCount normalizes a casualty count. Missing or NaN values become 0;
// negative or absurdly large values reject the row. The upper bound keeps the
// float-to-int conversion from overflowing into a negative count.
func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return 0, nil
	}
	// The export writes counts as floats ("2.0").
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, nil
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count %v", v)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("count %v out of range", v)
	}
	return int(v), nil
}

// ReadCSVFile reads a catalog export into header-keyed rows. Ragged rows are
// tolerated; missing cells surface as empty strings and fail row validation
// later if the field was mandatory.
func ReadCSVFile(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	var rows []RawRow
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if _, ok := err.(*csv.ParseError); ok {
				slog.Warn("skipping malformed CSV line", "error", err.Error())
				continue
			}
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		row := make(RawRow, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
