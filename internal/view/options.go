package view

import (
	"fmt"

	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/obras"
)

// PopupField selects which categorical field the popup shows next to locality.
type PopupField string

const (
	PopupType     PopupField = "type"
	PopupOrganism PopupField = "organism"
)

// Profile names a preset of camera and popup behaviour.
const (
	ProfileCapped = "capped"
	ProfileOpen   = "open"
)

// Size is the client viewport in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultSize is used when the client does not report its viewport.
var DefaultSize = Size{Width: 1024, Height: 768}

// DefaultInitial frames the province of Santa Cruz.
var DefaultInitial = InitialView{Center: geo.LatLng{Lat: -48.5, Lng: -69.0}, Zoom: 6}

// Options controls rendering and the camera policy.
type Options struct {
	Initial        InitialView
	PopupField     PopupField
	StatusFallback string
	SingleZoom     float64
	Padding        float64
	// MaxZoom caps bounding-box fits; zero disables the cap.
	MaxZoom float64
}

// ProfileOptions returns the preset options for a named profile.
func ProfileOptions(name string) (Options, error) {
	opts := Options{
		Initial:        DefaultInitial,
		StatusFallback: obras.DefaultStatus,
	}

	switch name {
	case "", ProfileCapped:
		opts.SingleZoom = 14
		opts.Padding = 50
		opts.MaxZoom = 12
		opts.PopupField = PopupType
	case ProfileOpen:
		opts.SingleZoom = 15
		opts.Padding = 40
		opts.PopupField = PopupOrganism
	default:
		return Options{}, fmt.Errorf("unknown view profile %q", name)
	}

	return opts, nil
}
