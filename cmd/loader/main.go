package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/obrasmap/internal/config"
	"github.com/woozymasta/obrasmap/internal/logger"
	"github.com/woozymasta/obrasmap/internal/obras"
	"github.com/woozymasta/obrasmap/internal/processor"
	"github.com/woozymasta/obrasmap/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Output      string `short:"o" long:"out"          env:"DATASET_OUT"  description:"Dataset cache file (overrides dataset.cache)"`
	Concurrency int    `short:"p" long:"concurrency"  env:"CONCURRENCY"  description:"Concurrency" default:"8"`
	ZoomLimit   int    `short:"z" long:"zoom-limit"   env:"ZOOM_LIMIT"   description:"Tiles zoom limit" default:"12"`
	TilesOnly   bool   `short:"t" long:"tiles-only"   description:"Mirror tiles only"`
	GeoJSONOnly bool   `short:"g" long:"geojson-only" description:"Cache the dataset only"`
	Force       bool   `short:"f" long:"force"        description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	dest := cfg.Dataset.Cache
	if opts.Output != "" {
		dest = opts.Output
	}

	if cfg.Tiles.ZoomLimit <= 0 {
		cfg.Tiles.ZoomLimit = opts.ZoomLimit
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}

	ctx := context.Background()
	src, err := source.FromConfig(ctx, cfg.Dataset, client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure dataset source")
	}

	log.Info().
		Str("source", src.Name()).
		Str("dest", dest).
		Bool("tiles", !opts.GeoJSONOnly).
		Msg("Starting loader")

	// tiles-only still needs the dataset for its bounds; an existing cache is reused
	fc, err := processor.ProcessDataset(ctx, src, dest, opts.Force && !opts.TilesOnly)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to process dataset")
	}

	if opts.GeoJSONOnly && !opts.TilesOnly {
		log.Info().Msg("Loader finished successfully")
		return
	}

	features, _ := obras.FromCollection(fc)
	if len(features) == 0 {
		log.Warn().Msg("Dataset has no points, nothing to mirror")
		return
	}

	b := orb.Bound{Min: features[0].Point.Point(), Max: features[0].Point.Point()}
	for _, f := range features[1:] {
		b = b.Extend(f.Point.Point())
	}

	processor.ProcessTiles(
		client,
		processor.Mirror{URLTemplate: cfg.Tiles.URL, Dir: cfg.Tiles.Dir, Subdomains: cfg.Tiles.Subdomains},
		b,
		cfg.Tiles.ZoomMin,
		cfg.Tiles.ZoomLimit,
		opts.Concurrency,
		opts.Force)

	log.Info().Msg("Loader finished successfully")
}
