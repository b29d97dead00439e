package server

import (
	"bytes"
	"context"
	"image"
	"sync"

	"github.com/woozymasta/obrasmap/assets"
	"github.com/woozymasta/obrasmap/internal/config"
	"github.com/woozymasta/obrasmap/internal/obras"
	"github.com/woozymasta/obrasmap/internal/source"
	"github.com/woozymasta/obrasmap/internal/view"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config          *config.Config
	Store           *obras.Store
	Source          source.Source
	Controller      *view.Controller
	Metrics         *Metrics
	IndexHTML       []byte
	Favicon         []byte
	TransparentTile []byte

	// serializes reloads
	loadMu sync.Mutex
}

// NewServerContext builds the page assets and the filter controller.
// The dataset is not loaded yet; call Load.
func NewServerContext(cfg *config.Config, store *obras.Store, src source.Source) (*ServerContext, error) {
	opts, err := cfg.View.Options()
	if err != nil {
		return nil, err
	}

	m := assets.NewMinifier()

	index, err := assets.Render(m, cfg.Title)
	if err != nil {
		return nil, err
	}

	favicon, err := assets.MinifiedFavicon(m)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to minify favicon, serving original")
		favicon = assets.Favicon
	}

	tile, err := transparentTile()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", src.Name()).
		Str("profile", cfg.View.Profile).
		Bool("tile_mirror", cfg.Tiles.Mirror).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:          cfg,
		Store:           store,
		Source:          src,
		Controller:      view.NewController(store, opts, cfg.Dataset.NoData),
		Metrics:         NewMetrics(),
		IndexHTML:       index,
		Favicon:         favicon,
		TransparentTile: tile,
	}, nil
}

// Load runs the data source once and publishes the result.
// Failures are recorded in the store and counted.
func (s *ServerContext) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if err := source.LoadInto(ctx, s.Source, s.Store); err != nil {
		s.Metrics.loadFailures.Inc()
		return err
	}

	features, _ := s.Store.Features()
	s.Metrics.features.Set(float64(len(features)))
	return nil
}

// transparentTile encodes the fallback served for tiles missing from the mirror.
func transparentTile() ([]byte, error) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
