package main

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Input     string `short:"i" long:"in"        description:"Input CSV file path. Reads from stdin if empty"`
	Output    string `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
	Format    string `short:"f" long:"format"    description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Delimiter string `short:"d" long:"delimiter" description:"Field delimiter" default:","`
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

	comma, size := utf8.DecodeRuneInString(opts.Delimiter)
	if size == 0 || size != len(opts.Delimiter) {
		fmt.Fprintln(os.Stderr, "Error: --delimiter must be a single character")
		os.Exit(1)
	}

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	features, err := convert(in, comma, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	outputData, err := marshal(features, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d works to %s (format: %s)\n", len(features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
