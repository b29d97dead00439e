// Package obras holds the public-works records and the pure filter logic
// applied to them: facet derivation and the conjunctive filter predicate.
package obras

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/woozymasta/obrasmap/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	// NoData is the sentinel value excluded from facet options.
	NoData = "Sin Datos"

	// DefaultStatus is shown when a record carries no status.
	DefaultStatus = "Projected"
)

// Property keys, Spanish source names first.
var (
	keysID       = []string{"id"}
	keysLocality = []string{"localidad", "locality"}
	keysName     = []string{"nombre", "name"}
	keysType     = []string{"tipo", "type"}
	keysOrganism = []string{"organismo", "organism", "managingOrganism"}
	keysStatus   = []string{"estado", "status"}
)

// Feature is a single public-works record. Records are never modified after load.
type Feature struct {
	Locality string     `json:"localidad"`
	Organism string     `json:"organismo"`
	Type     string     `json:"tipo"`
	Name     string     `json:"nombre"`
	Status   string     `json:"estado,omitempty"`
	Point    geo.LatLng `json:"point"`
	ID       int        `json:"id"`
}

// StatusOr returns the record status or fallback when it is absent.
func (f Feature) StatusOr(fallback string) string {
	if f.Status == "" {
		return fallback
	}
	return f.Status
}

// FromCollection converts a decoded dataset into records, preserving order.
// Features without a renderable point are skipped and counted.
func FromCollection(fc *geo.FeatureCollection) (features []Feature, skipped int) {
	if fc == nil {
		return nil, 0
	}

	features = make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		p, ok := geo.RenderablePoint(f.Geometry)
		if !ok {
			skipped++
			continue
		}

		features = append(features, Feature{
			ID:       intProp(f.Properties, keysID),
			Locality: strProp(f.Properties, keysLocality),
			Name:     strProp(f.Properties, keysName),
			Type:     strProp(f.Properties, keysType),
			Organism: strProp(f.Properties, keysOrganism),
			Status:   strProp(f.Properties, keysStatus),
			Point:    geo.FromPoint(p),
		})
	}

	return features, skipped
}

// ToCollection builds a GeoJSON document of Point features from records.
func ToCollection(features []Feature) *geo.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gf := geojson.NewFeature(orb.Point{f.Point.Lng, f.Point.Lat})
		gf.Properties["id"] = f.ID
		gf.Properties["localidad"] = f.Locality
		gf.Properties["nombre"] = f.Name
		gf.Properties["tipo"] = f.Type
		gf.Properties["organismo"] = f.Organism
		if f.Status != "" {
			gf.Properties["estado"] = f.Status
		}
		fc.Append(gf)
	}

	return fc
}

func lookup(props geojson.Properties, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := props[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func strProp(props geojson.Properties, keys []string) string {
	v, ok := lookup(props, keys)
	if !ok {
		return ""
	}

	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

func intProp(props geojson.Properties, keys []string) int {
	v, ok := lookup(props, keys)
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	}

	return 0
}
