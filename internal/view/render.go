package view

import (
	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/obras"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// Render replaces every marker on mv with one per record and moves the camera:
// no records reset it to the initial view, one record is flown to at the
// single-result zoom, and two or more are framed by their bounding box.
func Render(mv *MapView, features []obras.Feature, opts Options, size Size) {
	mv.ClearMarkers()

	for _, f := range features {
		mv.AddMarker(NewMarker(f, opts))
	}

	switch len(features) {
	case 0:
		mv.ResetCamera()
	case 1:
		mv.SetCamera(Camera{
			Mode:   ModeFly,
			Center: features[0].Point,
			Zoom:   opts.SingleZoom,
		})
	default:
		mv.SetCamera(fitCamera(mv, opts, size))
	}
}

func fitCamera(mv *MapView, opts Options, size Size) Camera {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}

	b, _ := mv.MarkerBounds()
	bounds := BoundsFromOrb(b)

	return Camera{
		Mode:    ModeFit,
		Bounds:  &bounds,
		Center:  geo.BoundsCenter(b),
		Zoom:    geo.BoundsZoom(b, size.Width, size.Height, opts.Padding, opts.MaxZoom),
		Padding: opts.Padding,
		MaxZoom: opts.MaxZoom,
	}
}

// NewMarker builds the marker and popup for a record.
func NewMarker(f obras.Feature, opts Options) Marker {
	fallback := opts.StatusFallback
	if fallback == "" {
		fallback = obras.DefaultStatus
	}

	rows := []PopupRow{{Label: "Localidad", Value: f.Locality}}
	if opts.PopupField == PopupOrganism {
		rows = append(rows, PopupRow{Label: "Organismo", Value: f.Organism})
	} else {
		rows = append(rows, PopupRow{Label: "Tipo", Value: f.Type})
	}
	rows = append(rows, PopupRow{Label: "Estado", Value: f.StatusOr(fallback)})

	return Marker{
		Key:      geohash.Encode(f.Point.Lat, f.Point.Lng),
		ID:       f.ID,
		Position: f.Point,
		Popup:    Popup{Title: f.Name, Rows: rows},
	}
}
