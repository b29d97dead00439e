// Package view turns a filtered set of records into map state: one marker per
// record and a camera framing them.
package view

import (
	"github.com/woozymasta/obrasmap/internal/geo"

	"github.com/paulmach/orb"
)

// CameraMode tells the client how to move the camera.
type CameraMode string

const (
	// ModeReset returns to the fixed initial view.
	ModeReset CameraMode = "reset"
	// ModeFly centers on a single point at a fixed zoom.
	ModeFly CameraMode = "fly"
	// ModeFit frames a bounding box.
	ModeFit CameraMode = "fit"
)

// InitialView is the fixed camera position used at startup and for empty results.
type InitialView struct {
	Center geo.LatLng `json:"center"`
	Zoom   float64    `json:"zoom"`
}

// Bounds is a latitude/longitude rectangle.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// BoundsFromOrb converts an orb bound.
func BoundsFromOrb(b orb.Bound) Bounds {
	return Bounds{South: b.Min.Lat(), West: b.Min.Lon(), North: b.Max.Lat(), East: b.Max.Lon()}
}

// Orb converts back to an orb bound.
func (b Bounds) Orb() orb.Bound {
	return orb.Bound{Min: orb.Point{b.West, b.South}, Max: orb.Point{b.East, b.North}}
}

// Contains reports whether ll lies within the bounds, edges included.
func (b Bounds) Contains(ll geo.LatLng) bool {
	return ll.Lat >= b.South && ll.Lat <= b.North && ll.Lng >= b.West && ll.Lng <= b.East
}

// Camera is the computed camera state.
type Camera struct {
	Bounds  *Bounds    `json:"bounds,omitempty"`
	Mode    CameraMode `json:"mode"`
	Center  geo.LatLng `json:"center"`
	Zoom    float64    `json:"zoom"`
	Padding float64    `json:"padding,omitempty"`
	MaxZoom float64    `json:"max_zoom,omitempty"`
}

// PopupRow is a labelled line of a marker popup.
type PopupRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Popup is the descriptive label attached to a marker.
type Popup struct {
	Title string     `json:"title"`
	Rows  []PopupRow `json:"rows"`
}

// Marker is a single displayed record.
type Marker struct {
	Key      string     `json:"key"`
	Popup    Popup      `json:"popup"`
	Position geo.LatLng `json:"position"`
	ID       int        `json:"id"`
}

// MapView owns the camera and the marker layer of one map.
type MapView struct {
	markers []Marker
	initial InitialView
	camera  Camera
}

// NewMapView returns a view positioned at the initial camera with no markers.
func NewMapView(initial InitialView) *MapView {
	mv := &MapView{initial: initial, markers: []Marker{}}
	mv.ResetCamera()
	return mv
}

// Camera returns the current camera state.
func (mv *MapView) Camera() Camera {
	return mv.camera
}

// Markers returns the markers currently on the layer.
func (mv *MapView) Markers() []Marker {
	return mv.markers
}

// Initial returns the fixed initial view.
func (mv *MapView) Initial() InitialView {
	return mv.initial
}

// ClearMarkers empties the marker layer.
func (mv *MapView) ClearMarkers() {
	mv.markers = []Marker{}
}

// AddMarker appends a marker to the layer.
func (mv *MapView) AddMarker(m Marker) {
	mv.markers = append(mv.markers, m)
}

// ResetCamera moves the camera back to the initial view.
func (mv *MapView) ResetCamera() {
	mv.camera = Camera{Mode: ModeReset, Center: mv.initial.Center, Zoom: mv.initial.Zoom}
}

// SetCamera replaces the camera state.
func (mv *MapView) SetCamera(c Camera) {
	mv.camera = c
}

// MarkerBounds returns the minimal bound containing every marker.
func (mv *MapView) MarkerBounds() (orb.Bound, bool) {
	if len(mv.markers) == 0 {
		return orb.Bound{}, false
	}

	first := mv.markers[0].Position.Point()
	b := orb.Bound{Min: first, Max: first}
	for _, m := range mv.markers[1:] {
		b = b.Extend(m.Position.Point())
	}

	return b, true
}
