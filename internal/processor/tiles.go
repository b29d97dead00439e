package processor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// UserAgent identifies the mirror to tile servers, as the OSM usage policy requires.
const UserAgent = "obrasmap-loader/1.0"

// Mirror describes a remote tile layer and where its tiles are stored.
type Mirror struct {
	URLTemplate string
	Dir         string
	Subdomains  []string
}

type job struct {
	Tile maptile.Tile
}

type result struct {
	Tile  maptile.Tile
	Valid bool
}

// TilePath returns the on-disk location of a mirrored tile.
func TilePath(dir string, z, x, y uint32) string {
	return filepath.Join(
		dir,
		strconv.FormatUint(uint64(z), 10),
		strconv.FormatUint(uint64(x), 10),
		strconv.FormatUint(uint64(y), 10)+".webp",
	)
}

// CoverTiles lists the tiles at zoom z intersecting the bound, plus a ring of
// margin tiles around it so a padded camera fit has no blank edges.
func CoverTiles(b orb.Bound, z maptile.Zoom, margin uint32) []maptile.Tile {
	nw := maptile.At(orb.Point{b.Min.Lon(), b.Max.Lat()}, z)
	se := maptile.At(orb.Point{b.Max.Lon(), b.Min.Lat()}, z)

	last := uint32(1)<<uint32(z) - 1
	minX, minY := subClamp(nw.X, margin), subClamp(nw.Y, margin)
	maxX, maxY := addClamp(se.X, margin, last), addClamp(se.Y, margin, last)

	tiles := make([]maptile.Tile, 0, int(maxX-minX+1)*int(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			tiles = append(tiles, maptile.New(x, y, z))
		}
	}

	return tiles
}

// ProcessTiles downloads every tile covering the bound for zoom levels
// zoomMin..zoomLimit and stores them as webp. It returns the number of tiles
// available on disk afterwards.
func ProcessTiles(client *http.Client, m Mirror, b orb.Bound, zoomMin, zoomLimit, concurrency int, force bool) int {
	if concurrency <= 0 {
		concurrency = 8
	}
	if zoomMin < 0 {
		zoomMin = 0
	}

	log.Info().
		Str("source", m.URLTemplate).
		Str("dir", m.Dir).
		Int("zoom_min", zoomMin).
		Int("zoom_limit", zoomLimit).
		Msg("Starting tile mirror")

	total := 0
	for z := zoomMin; z <= zoomLimit; z++ {
		tiles := CoverTiles(b, maptile.Zoom(z), 1)

		log.Debug().Int("zoom", z).Int("count", len(tiles)).Msg("Processing zoom level")

		valid := processBatch(client, m, concurrency, tiles, force)
		if len(valid) == 0 {
			log.Info().Int("zoom", z).Msg("No data found at zoom level, stopping")
			break
		}
		total += len(valid)
	}

	log.Info().Int("tiles", total).Msg("Tile mirror finished")
	return total
}

func processBatch(client *http.Client, m Mirror, concurrency int, tiles []maptile.Tile, force bool) []maptile.Tile {
	jobs := make(chan job, len(tiles))
	results := make(chan result, len(tiles))

	go func() {
		for _, t := range tiles {
			jobs <- job{Tile: t}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				isValid, err := downloadAndConvert(client, m, j.Tile, force)
				if err != nil {
					log.Trace().
						Err(err).
						Str("url", BuildURL(m, j.Tile)).
						Msg("Failed to download tile")
				}
				results <- result{Tile: j.Tile, Valid: isValid}
			}
		}()
	}
	wg.Wait()
	close(results)

	var valid []maptile.Tile
	for res := range results {
		if res.Valid {
			valid = append(valid, res.Tile)
		}
	}

	return valid
}

func downloadAndConvert(client *http.Client, m Mirror, t maptile.Tile, force bool) (bool, error) {
	outPath := TilePath(m.Dir, uint32(t.Z), t.X, t.Y)

	// Check existence if not forcing overwrite
	if !force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return true, nil
		}
	}

	url := BuildURL(m, t)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		log.Trace().Str("url", url).Msg("Tile not found (404)")
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status code %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	img, _, err := image.Decode(bytes.NewReader(bodyBytes))
	if err != nil {
		log.Trace().Err(err).Str("url", url).Msg("Failed to decode image")
		return false, nil // Not an image or corrupted
	}

	// Filter out empty/1px tiles often returned by map servers for OOB areas
	if img.Bounds().Dx() <= 1 {
		log.Trace().Str("url", url).Msg("Filtered empty tile")
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, err
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return false, err
	}
	defer func() { _ = outFile.Close() }()

	if err := webp.Encode(outFile, img, &webp.Options{Lossless: false, Quality: 80}); err != nil {
		return false, err
	}

	return true, nil
}

// BuildURL expands {s}, {z}, {x}, {y} and {tms_y} in the mirror's template.
func BuildURL(m Mirror, t maptile.Tile) string {
	s := strings.ReplaceAll(m.URLTemplate, "{z}", strconv.FormatUint(uint64(t.Z), 10))
	s = strings.ReplaceAll(s, "{x}", strconv.FormatUint(uint64(t.X), 10))
	s = strings.ReplaceAll(s, "{y}", strconv.FormatUint(uint64(t.Y), 10))

	if strings.Contains(s, "{tms_y}") {
		maxCoord := uint32(1)<<uint32(t.Z) - 1
		s = strings.ReplaceAll(s, "{tms_y}", strconv.FormatUint(uint64(maxCoord-t.Y), 10))
	}

	if strings.Contains(s, "{s}") {
		sub := ""
		if len(m.Subdomains) > 0 {
			sub = m.Subdomains[int(t.X+t.Y)%len(m.Subdomains)]
		}
		s = strings.ReplaceAll(s, "{s}", sub)
	}

	return s
}

func subClamp(v, d uint32) uint32 {
	if v < d {
		return 0
	}
	return v - d
}

func addClamp(v, d, limit uint32) uint32 {
	if v+d > limit {
		return limit
	}
	return v + d
}
