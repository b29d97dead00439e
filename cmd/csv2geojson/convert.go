package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/obras"

	"gopkg.in/yaml.v3"
)

// Header aliases per column, matched case-insensitively.
var columns = map[string][]string{
	"id":        {"id"},
	"localidad": {"localidad", "locality"},
	"nombre":    {"nombre", "name"},
	"tipo":      {"tipo", "type"},
	"organismo": {"organismo", "organism"},
	"estado":    {"estado", "status"},
	"lon":       {"lon", "lng", "longitud", "longitude", "x"},
	"lat":       {"lat", "latitud", "latitude", "y"},
}

// convert reads CSV rows with a header line and returns the records.
// Rows with unparsable coordinates are reported to warn and skipped.
func convert(r io.Reader, comma rune, warn io.Writer) ([]obras.Feature, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for col, aliases := range columns {
			for _, a := range aliases {
				if h == a {
					idx[col] = i
				}
			}
		}
	}
	for _, required := range []string{"nombre", "lon", "lat"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var features []obras.Feature
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		name := field(row, "nombre")
		lon, err1 := strconv.ParseFloat(field(row, "lon"), 64)
		lat, err2 := strconv.ParseFloat(field(row, "lat"), 64)
		if err1 != nil || err2 != nil {
			fmt.Fprintf(warn, "Skipping %s (line %d) due to invalid coords: %q, %q\n", name, line, field(row, "lon"), field(row, "lat"))
			continue
		}

		id, _ := strconv.Atoi(field(row, "id"))
		features = append(features, obras.Feature{
			ID:       id,
			Locality: field(row, "localidad"),
			Name:     name,
			Type:     field(row, "tipo"),
			Organism: field(row, "organismo"),
			Status:   field(row, "estado"),
			Point:    geo.LatLng{Lat: lat, Lng: lon},
		})
	}

	return features, nil
}

// marshal encodes records as GeoJSON, or as YAML ready to paste under
// dataset.geojson in config.yaml.
func marshal(features []obras.Feature, format string) ([]byte, error) {
	data, err := json.MarshalIndent(obras.ToCollection(features), "", "  ")
	if err != nil || format != "yaml" {
		return data, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
