package api

import (
	"github.com/lvasseur/go-landslides/internal/aggregate"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toGeoJSON(markers []aggregate.Marker) FeatureCollection {
	features := make([]Feature, 0, len(markers))

	for _, m := range markers {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{m.Longitude, m.Latitude},
			},
			Properties: map[string]any{
				"index":       m.Index,
				"title":       m.Title,
				"description": m.Popup.Description,
				"source_name": m.Popup.SourceName,
				"photo_url":   m.Popup.PhotoURL,
				"date":        m.Popup.Date,
				"country":     m.Popup.Country,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
