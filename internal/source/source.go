// Package source loads the works dataset from the configured origin and
// publishes it into an obras.Store.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/woozymasta/obrasmap/assets"
	"github.com/woozymasta/obrasmap/internal/config"
	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/obras"

	"github.com/rs/zerolog/log"
)

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// Source supplies the full feature collection.
type Source interface {
	Name() string
	Load(ctx context.Context) (*geo.FeatureCollection, error)
}

// FromConfig picks the source variant described by the dataset config.
// Inline GeoJSON takes priority, then the URL, then the embedded dataset.
func FromConfig(ctx context.Context, cfg config.Dataset, client *http.Client) (Source, error) {
	switch {
	case cfg.Inline != nil:
		return Inline{Doc: cfg.Inline}, nil
	case strings.HasPrefix(cfg.URL, "http://"), strings.HasPrefix(cfg.URL, "https://"):
		return NewHTTP(client, cfg.URL), nil
	case strings.HasPrefix(cfg.URL, "s3://"):
		return NewS3(ctx, cfg.URL, cfg.S3)
	case cfg.URL != "":
		return File{Path: cfg.URL}, nil
	}

	return Embedded{Data: assets.Dataset}, nil
}

// LoadInto loads src and publishes the records into store. On failure the
// error is recorded in the store and returned; the store keeps its
// previous state.
func LoadInto(ctx context.Context, src Source, store *obras.Store) error {
	fc, err := src.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load %s: %w", src.Name(), err)
		store.Fail(err)
		log.Error().Err(err).Str("source", src.Name()).Msg("Failed to load dataset")
		return err
	}

	features, skipped := obras.FromCollection(fc)
	if skipped > 0 {
		log.Warn().
			Str("source", src.Name()).
			Int("skipped", skipped).
			Msg("Features without a point geometry skipped")
	}

	store.Set(features)

	log.Info().
		Str("source", src.Name()).
		Int("features", len(features)).
		Msg("Dataset loaded")

	return nil
}
