package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/obrasmap/internal/config"
	"github.com/woozymasta/obrasmap/internal/logger"
	"github.com/woozymasta/obrasmap/internal/obras"
	"github.com/woozymasta/obrasmap/internal/server"
	"github.com/woozymasta/obrasmap/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"  env:"CONFIG_FILE"    description:"Path to configuration file (defaults are used if empty)"`
	Dataset    string `short:"d" long:"dataset" env:"DATASET_URL"    description:"Override dataset URL, s3:// URL or file path"`
	Addr       string `short:"a" long:"addr"    env:"LISTEN_ADDRESS" description:"Address to listen on" default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"    env:"LISTEN_PORT"    description:"Port to listen on"    default:"8080"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if opts.Dataset != "" {
		cfg.Dataset.URL = opts.Dataset
		cfg.Dataset.Inline = nil
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 15 * time.Second}

	src, err := source.FromConfig(ctx, cfg.Dataset, client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure dataset source")
	}

	srvCtx, err := server.NewServerContext(cfg, obras.NewStore(), src)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	// The page stays usable while the dataset loads; requests before then
	// see an empty map.
	go func() {
		_ = srvCtx.Load(ctx)
	}()

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Str("source", src.Name()).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Routes()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
