package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/source"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

func pngTile(t *testing.T, size int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 220, B: 240, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCoverTilesContainsEveryPoint(t *testing.T) {
	points := []orb.Point{
		{-72.20958742841874, -51.5896707658149},
		{-67.54230877043062, -46.43658939441054},
		{-69.22054480268227, -51.62716008344622},
	}
	b := orb.MultiPoint(points).Bound()

	for z := maptile.Zoom(0); z <= 10; z++ {
		set := make(map[maptile.Tile]bool)
		for _, tile := range CoverTiles(b, z, 0) {
			set[tile] = true
		}
		for _, p := range points {
			if !set[maptile.At(p, z)] {
				t.Fatalf("zoom %d: tile of %v not covered", z, p)
			}
		}
	}
}

func TestCoverTilesMarginIsClamped(t *testing.T) {
	b := orb.Bound{Min: orb.Point{-70, -50}, Max: orb.Point{-70, -50}}

	if got := len(CoverTiles(b, 0, 1)); got != 1 {
		t.Fatalf("zoom 0 must be a single tile, got %d", got)
	}
	if got := len(CoverTiles(b, 8, 1)); got != 9 {
		t.Fatalf("expected 3x3 tiles with margin, got %d", got)
	}
}

func TestBuildURL(t *testing.T) {
	m := Mirror{URLTemplate: "https://{s}.tile.example.org/{z}/{x}/{y}.png", Subdomains: []string{"a", "b", "c"}}
	got := BuildURL(m, maptile.New(5, 3, 4))
	if got != "https://c.tile.example.org/4/5/3.png" {
		t.Fatalf("unexpected url %q", got)
	}

	tms := Mirror{URLTemplate: "/tiles/{z}/{x}/{tms_y}.png"}
	if got := BuildURL(tms, maptile.New(1, 0, 2)); got != "/tiles/2/1/3.png" {
		t.Fatalf("unexpected tms url %q", got)
	}
}

func TestProcessTiles(t *testing.T) {
	full := pngTile(t, 256)
	pixel := pngTile(t, 1)

	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.UserAgent())
		switch {
		case strings.HasPrefix(r.URL.Path, "/0/"), strings.HasPrefix(r.URL.Path, "/1/"):
			_, _ = w.Write(full)
		case strings.HasPrefix(r.URL.Path, "/2/"):
			_, _ = w.Write(pixel)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	m := Mirror{URLTemplate: srv.URL + "/{z}/{x}/{y}.png", Dir: dir}
	b := orb.Bound{Min: orb.Point{-72.2, -51.6}, Max: orb.Point{-67.5, -46.4}}

	// single worker keeps the agents slice race free
	n := ProcessTiles(srv.Client(), m, b, 0, 4, 1, false)

	// zoom 0 is one tile, zoom 1 is the 2x2 grid with margin, zoom 2 has only placeholders
	if n != 5 {
		t.Fatalf("expected 5 stored tiles, got %d", n)
	}
	if _, err := os.Stat(TilePath(dir, 0, 0, 0)); err != nil {
		t.Fatalf("zoom 0 tile missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("placeholder tiles must not be stored: %v", err)
	}
	for _, ua := range agents {
		if ua != UserAgent {
			t.Fatalf("unexpected user agent %q", ua)
		}
	}

	// cached tiles are not fetched again
	agents = nil
	if n := ProcessTiles(srv.Client(), m, b, 0, 0, 1, false); n != 1 || len(agents) != 0 {
		t.Fatalf("expected cached tile reuse, got n=%d requests=%d", n, len(agents))
	}
}

const doc = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"id":1,"nombre":"ESCUELA EIPE"},"geometry":{"type":"Point","coordinates":[-72.2,-51.5]}}]}`

type countingSource struct {
	calls int
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Load(context.Context) (*geo.FeatureCollection, error) {
	c.calls++
	return source.Embedded{Data: []byte(doc)}.Load(context.Background())
}

func TestProcessDataset(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "data", "obras.geojson")
	src := &countingSource{}

	fc, err := ProcessDataset(context.Background(), src, dest, false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	// second run reads the cache
	fc, err = ProcessDataset(context.Background(), src, dest, false)
	if err != nil {
		t.Fatalf("process cached: %v", err)
	}
	if src.calls != 1 || len(fc.Features) != 1 {
		t.Fatalf("expected cache reuse, calls=%d", src.calls)
	}

	if _, err := ProcessDataset(context.Background(), src, dest, true); err != nil {
		t.Fatalf("process forced: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("force must reload, calls=%d", src.calls)
	}
}
