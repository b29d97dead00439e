package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	// TileSize is the pixel size of a slippy map tile.
	TileSize = 256.0

	// MaxZoom is the deepest zoom level served by the OSM tile layer.
	MaxZoom = 18.0

	// MaxLat is the latitude limit of the Web Mercator projection.
	MaxLat = 85.05112878
)

// LatLng is a WGS84 coordinate in the order the map client expects.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Point converts the coordinate to an orb point ([Lon, Lat]).
func (ll LatLng) Point() orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// FromPoint converts an orb point ([Lon, Lat]) to LatLng.
func FromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// Pixel is a position in Web Mercator world pixels.
type Pixel struct {
	X, Y float64
}

// Project converts a coordinate to world pixels at the given zoom.
func Project(ll LatLng, zoom float64) Pixel {
	scale := TileSize * math.Exp2(zoom)

	lat := math.Max(-MaxLat, math.Min(MaxLat, ll.Lat))
	sin := math.Sin(lat * math.Pi / 180.0)

	return Pixel{
		X: scale * (ll.Lng + 180.0) / 360.0,
		Y: scale * (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)),
	}
}

// Unproject converts world pixels at the given zoom back to a coordinate.
func Unproject(p Pixel, zoom float64) LatLng {
	scale := TileSize * math.Exp2(zoom)

	// y: [0..scale] -> mercatorY: [PI..-PI]
	mercatorY := math.Pi * (1 - 2*p.Y/scale)

	// Inverse Mercator projection
	latRad := (2.0 * math.Atan(math.Exp(mercatorY))) - (math.Pi * 0.5)

	return LatLng{
		Lat: latRad * (180.0 / math.Pi),
		Lng: p.X/scale*360.0 - 180.0,
	}
}

// BoundsZoom returns the deepest integer zoom at which the bound fits into a
// viewport of width x height pixels with padding on every side.
// The result is clamped to [0, maxZoom]; maxZoom <= 0 means MaxZoom.
// A degenerate bound (all points equal) fits at maxZoom.
func BoundsZoom(b orb.Bound, width, height, padding, maxZoom float64) float64 {
	if maxZoom <= 0 || maxZoom > MaxZoom {
		maxZoom = MaxZoom
	}

	w := width - 2*padding
	h := height - 2*padding
	if w <= 0 || h <= 0 {
		return 0
	}

	nw := Project(LatLng{Lat: b.Max.Lat(), Lng: b.Min.Lon()}, 0)
	se := Project(LatLng{Lat: b.Min.Lat(), Lng: b.Max.Lon()}, 0)
	dx, dy := se.X-nw.X, se.Y-nw.Y

	scale := math.Inf(1)
	if dx > 0 {
		scale = w / dx
	}
	if dy > 0 {
		scale = math.Min(scale, h/dy)
	}
	if math.IsInf(scale, 1) {
		return maxZoom
	}

	// snap to whole levels, rounding away float noise first
	zoom := math.Log2(scale)
	zoom = math.Floor(math.Round(zoom*100) / 100)

	return math.Max(0, math.Min(maxZoom, zoom))
}

// BoundsCenter returns the projected center of the bound, which is where
// a map client centers the camera when fitting it.
func BoundsCenter(b orb.Bound) LatLng {
	nw := Project(LatLng{Lat: b.Max.Lat(), Lng: b.Min.Lon()}, 0)
	se := Project(LatLng{Lat: b.Min.Lat(), Lng: b.Max.Lon()}, 0)

	return Unproject(Pixel{X: (nw.X + se.X) / 2, Y: (nw.Y + se.Y) / 2}, 0)
}
