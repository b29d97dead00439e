// Package geo handles GeoJSON decoding and the Web Mercator math behind camera fitting.
package geo

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection represents a decoded GeoJSON document.
type FeatureCollection = geojson.FeatureCollection

// Decode parses a GeoJSON FeatureCollection document.
func Decode(data []byte) (*FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	return fc, nil
}

// DecodeReader reads the whole stream and parses it as a FeatureCollection.
func DecodeReader(r io.Reader) (*FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}

	return Decode(data)
}

// FromYAML converts a generic document (as produced by yaml.v3 when a
// FeatureCollection is written inline in the config) into a FeatureCollection.
func FromYAML(doc map[string]interface{}) (*FeatureCollection, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("inline geojson: %w", err)
	}

	return Decode(data)
}

// RenderablePoint returns the coordinate a marker is drawn at.
// MultiPoint geometries use only their first point.
func RenderablePoint(g orb.Geometry) (orb.Point, bool) {
	switch v := g.(type) {
	case orb.Point:
		return v, true
	case orb.MultiPoint:
		if len(v) == 0 {
			return orb.Point{}, false
		}
		return v[0], true
	}

	return orb.Point{}, false
}
