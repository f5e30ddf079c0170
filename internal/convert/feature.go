package convert

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
)

// Feature is a GeoJSON Feature with a Point geometry and a numeric
// identifier. Immutable once built.
type Feature struct {
	ID         int64
	Geometry   *geom.Point
	Properties map[string]any
}

// FeatureCollection is an ordered list of Features.
type FeatureCollection struct {
	Features []*Feature
}

// Serialization types declare their fields in lexicographic key order.
// Combined with encoding/json's sorted map keys this keeps the whole
// document byte-reproducible for identical input.
type geometryJSON struct {
	Coordinates []float64 `json:"coordinates"`
	Type        string    `json:"type"`
}

type featureJSON struct {
	Geometry   geometryJSON   `json:"geometry"`
	ID         int64          `json:"id"`
	Properties map[string]any `json:"properties"`
	Type       string         `json:"type"`
}

type featureCollectionJSON struct {
	Features []*Feature `json:"features"`
	Type     string     `json:"type"`
}

// MarshalJSON serializes the Feature with sorted object keys.
func (f *Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(featureJSON{
		Geometry: geometryJSON{
			Coordinates: f.Geometry.FlatCoords(),
			Type:        "Point",
		},
		ID:         f.ID,
		Properties: f.Properties,
		Type:       "Feature",
	})
}

// MarshalJSON serializes the collection with sorted object keys. An empty
// collection still serializes with a valid, empty features list.
func (c *FeatureCollection) MarshalJSON() ([]byte, error) {
	features := c.Features
	if features == nil {
		features = []*Feature{}
	}
	return json.Marshal(featureCollectionJSON{
		Features: features,
		Type:     "FeatureCollection",
	})
}
