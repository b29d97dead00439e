package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/view"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Dataset.NoData != "Sin Datos" {
		t.Fatalf("unexpected no_data %q", cfg.Dataset.NoData)
	}
	if cfg.Labels.AllLocalities != "Todas" || cfg.Labels.AllOrganisms != "Todos" {
		t.Fatalf("unexpected labels %+v", cfg.Labels)
	}
	if cfg.Tiles.URL != DefaultTileURL {
		t.Fatalf("unexpected tile url %q", cfg.Tiles.URL)
	}

	opts, err := cfg.View.Options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.MaxZoom != 12 || opts.SingleZoom != 14 || opts.Padding != 50 {
		t.Fatalf("unexpected capped profile %+v", opts)
	}
	if opts.Initial != view.DefaultInitial {
		t.Fatalf("unexpected initial view %+v", opts.Initial)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
title: Obras Santa Cruz
dataset:
  url: https://example.org/obras.geojson
  no_data: "-"
view:
  profile: open
  center: {lat: -50, lng: -70}
  zoom: 7
  padding: 20
  max_zoom: 13
  popup: type
  status_fallback: Proyectada
labels:
  all_localities: Todas las localidades
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dataset.URL != "https://example.org/obras.geojson" || cfg.Dataset.NoData != "-" {
		t.Fatalf("unexpected dataset %+v", cfg.Dataset)
	}
	if cfg.Labels.AllLocalities != "Todas las localidades" || cfg.Labels.AllTypes != "Todos" {
		t.Fatalf("unexpected labels %+v", cfg.Labels)
	}

	opts, err := cfg.View.Options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	want := view.Options{
		Initial:        view.InitialView{Center: geo.LatLng{Lat: -50, Lng: -70}, Zoom: 7},
		PopupField:     view.PopupType,
		StatusFallback: "Proyectada",
		SingleZoom:     15,
		Padding:        20,
		MaxZoom:        13,
	}
	if opts != want {
		t.Fatalf("expected %+v, got %+v", want, opts)
	}
}

func TestInlineDataset(t *testing.T) {
	cfg, err := Parse([]byte(`
dataset:
  geojson:
    type: FeatureCollection
    features:
      - type: Feature
        properties: {id: 1, nombre: ESCUELA EIPE}
        geometry: {type: Point, coordinates: [-72.2, -51.5]}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	fc, err := geo.FromYAML(cfg.Dataset.Inline)
	if err != nil {
		t.Fatalf("inline: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
}

func TestUnknownProfileRejected(t *testing.T) {
	if _, err := Parse([]byte("view:\n  profile: wide\n")); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestWildcardLabels(t *testing.T) {
	l := Default().Labels
	if !l.IsWildcardLabel("Todas") || !l.IsWildcardLabel("Todos") || l.IsWildcardLabel("IDUV") {
		t.Fatal("unexpected wildcard label matching")
	}
}
