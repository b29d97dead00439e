package main

import (
	"fmt"
	"log"
	"os"

	"github.com/woozymasta/obrasmap/assets"
	"github.com/woozymasta/obrasmap/internal/config"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	ConfigFile string `short:"c" long:"config" description:"Path to configuration file, used for the page title"`
	Output     string `short:"o" long:"out"    description:"Output HTML file" default:"assets/index.html"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal("error read config:", err)
		}
	}

	page, err := assets.Render(assets.NewMinifier(), cfg.Title)
	if err != nil {
		log.Fatal("error render page:", err)
	}

	err = os.WriteFile(opts.Output, page, 0644)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("minify done: %s (%d bytes)\n", opts.Output, len(page))
}
