package models

import "time"

type Size string

const (
	SizeUnknown      Size = "unknown"
	SizeSmall        Size = "small"
	SizeMedium       Size = "medium"
	SizeLarge        Size = "large"
	SizeVeryLarge    Size = "very_large"
	SizeCatastrophic Size = "catastrophic"
)

// sizeRanks orders sizes from unknown (0) to catastrophic (5). Facet listings
// and any size comparison use this ranking, never lexical order.
var sizeRanks = map[Size]int{
	SizeUnknown:      0,
	SizeSmall:        1,
	SizeMedium:       2,
	SizeLarge:        3,
	SizeVeryLarge:    4,
	SizeCatastrophic: 5,
}

// Rank returns the ordinal position of the size. Unrecognized values rank
// alongside unknown.
func (s Size) Rank() int {
	return sizeRanks[s]
}

// ParseSize normalizes a raw size string. Empty or unrecognized values map to
// SizeUnknown.
func ParseSize(raw string) Size {
	s := Size(raw)
	if _, ok := sizeRanks[s]; !ok {
		return SizeUnknown
	}
	return s
}

// Event is one landslide event from the catalog.
type Event struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"` // e.g. "rock_fall", "mudslide"
	Trigger     string    `json:"trigger"`  // e.g. "downpour", "unknown"
	Size        Size      `json:"size"`
	Fatalities  int       `json:"fatalities"`
	Injuries    int       `json:"injuries"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SourceName  string    `json:"source_name"`
	SourceURL   string    `json:"source_url"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Country     string    `json:"country"`
}

func (e *Event) Year() int {
	return e.Date.Year()
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (e *Event) Coordinates() Coordinates {
	return Coordinates{
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
	}
}
