// Package processor handles caching the dataset and mirroring map tiles.
package processor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/source"

	"github.com/rs/zerolog/log"
)

// ProcessDataset loads src and writes it to dest as GeoJSON. An existing
// file is reused unless force is set. The loaded collection is returned
// for further processing.
func ProcessDataset(ctx context.Context, src source.Source, dest string, force bool) (*geo.FeatureCollection, error) {
	if _, err := os.Stat(dest); err == nil && !force {
		log.Debug().Str("path", dest).Msg("Dataset cache exists, skipping download")
		return source.File{Path: dest}.Load(ctx)
	}

	log.Info().
		Str("source", src.Name()).
		Str("dest", dest).
		Msg("Processing dataset")

	fc, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := saveGeoJSON(dest, fc); err != nil {
		return nil, err
	}

	log.Info().
		Int("features", len(fc.Features)).
		Str("dest", dest).
		Msg("Dataset cached")

	return fc, nil
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(path string, fc *geo.FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
