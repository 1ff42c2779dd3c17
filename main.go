package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/merridan/imgmod/internal/config"
	"github.com/merridan/imgmod/internal/converter"
	"github.com/merridan/imgmod/internal/logging"
	"github.com/merridan/imgmod/internal/ops"
)

const usageHeader = `Bitwise operations and other stuff to images.

Usage: imgmod [flags] <op> [color|bits|intensity] [raw]

Ops: %s, bloom, sort

Examples:
  imgmod -in photo.png -out glitch.png xor '#FF00FF'
  imgmod -in photo.png sub 404040 raw > darker.png
  imgmod left 2 raw < photo.png > shifted.png
  imgmod -in photo.png -radius 6 -min 200 bloom 1.5 > glow.png
  imgmod -in photo.png -direction vertical -sort-by hue -min 0.2 -max 0.8 sort > sorted.png

Flags:
`

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("imgmod: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("imgmod", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, usageHeader, strings.Join(ops.Names(), ", "))
		fs.PrintDefaults()
	}

	var f config.Flags
	fs.StringVar(&f.Input, "in", "", "input image path (default: read stdin)")
	fs.StringVar(&f.Output, "out", "", "output PNG path (default: write stdout); a .zst suffix compresses it")
	fs.StringVar(&f.Color, "color", "", "constant color as #RRGGBB or RRGGBB")
	fs.StringVar(&f.LHS, "lhs", "", "left operand channels, e.g. \"b,g,r\"")
	fs.StringVar(&f.RHS, "rhs", "", "right operand channels, e.g. \"b,r,b\"")
	fs.BoolVar(&f.Negate, "negate", false, "negate the result of or/and/xor")
	fs.BoolVar(&f.Raw, "raw", false, "wrap instead of saturate for sub/left/right")
	fs.StringVar(&f.Bits, "bits", "", "bit count for left/right (0-255)")
	workers := fs.Int("workers", 0, "number of parallel workers (0 = all CPUs)")
	fs.StringVar(&f.Intensity, "intensity", "", "bloom intensity multiplier")
	fs.StringVar(&f.Radius, "radius", "", "bloom blur radius in pixels")
	fs.StringVar(&f.Min, "min", "", "minimum threshold: 0-255 for bloom, 0.0-1.0 for sort")
	fs.StringVar(&f.Max, "max", "", "maximum threshold: 0-255 for bloom, 0.0-1.0 for sort")
	fs.StringVar(&f.Direction, "direction", "", "sort direction: horizontal or vertical")
	fs.StringVar(&f.SortBy, "sort-by", "", "sort key: brightness, red, green, blue, hue, saturation, luminance")
	reversed := fs.Bool("reversed", false, "sort descending")
	logLevel := fs.String("log-level", "", "logging level: debug, info, warn, error")
	configPath := fs.String("config", config.DefaultPath, "JSON file with default settings")

	positional, err := parseInterleaved(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	f.Args = positional
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "workers":
			f.Workers = workers
		case "reversed":
			f.Reversed = reversed
		}
	})
	if len(f.Args) == 0 {
		fs.Usage()
		return fmt.Errorf("%w: missing operation", config.ErrInvalid)
	}

	// Load configuration
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logging.SetLevel(level)
	logging.SetOutput(stderr)

	job, err := config.NewJob(cfg, f)
	if err != nil {
		return err
	}
	return converter.Run(job, stdin, stdout)
}

// parseInterleaved lets flags follow positional arguments, so that both
// "imgmod -raw sub FF0000" and "imgmod sub FF0000 -raw" work.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
