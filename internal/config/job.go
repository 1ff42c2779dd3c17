package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/merridan/imgmod/internal/bloom"
	"github.com/merridan/imgmod/internal/ops"
	"github.com/merridan/imgmod/internal/pixel"
	"github.com/merridan/imgmod/internal/pixelsort"
	"github.com/merridan/imgmod/internal/transform"
)

var ErrInvalid = errors.New("invalid arguments")

// Mode selects which engine a job runs.
type Mode uint8

const (
	ModeTransform Mode = iota
	ModeBloom
	ModeSort
)

func (m Mode) String() string {
	switch m {
	case ModeBloom:
		return "bloom"
	case ModeSort:
		return "sort"
	}
	return "transform"
}

// Job is the complete configuration of one run. It is built once by NewJob
// and only read afterwards.
type Job struct {
	Mode      Mode
	Transform transform.Options
	Bloom     bloom.Options
	Sort      pixelsort.Options

	Input   string // "" reads stdin
	Output  string // "" writes stdout
	Workers int    // 0 uses every CPU
}

// Flags holds the raw command-line values. Numeric fields are kept as
// strings so that "" means unset and parse errors carry the original text.
// Workers and Reversed are nil unless given on the command line, so that an
// explicit zero or false still overrides the config file.
type Flags struct {
	Args []string // command followed by positional arguments

	Input, Output string
	Color         string
	LHS, RHS      string
	Negate, Raw   bool
	Bits          string
	Workers       *int

	Intensity, Radius string
	Min, Max          string
	Direction, SortBy string
	Reversed          *bool
}

// NewJob merges flags over the config file defaults and validates the
// result. No pixel work may start before it returns successfully.
func NewJob(cfg *Config, f Flags) (Job, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if len(f.Args) == 0 {
		return Job{}, fmt.Errorf("%w: missing operation (one of %s, bloom, sort)", ErrInvalid, strings.Join(ops.Names(), ", "))
	}

	job := Job{
		Input:   ResolveInputPath(f.Input, cfg),
		Output:  f.Output,
		Workers: cfg.Workers,
	}
	if f.Workers != nil {
		job.Workers = *f.Workers
	}
	if job.Workers < 0 {
		return Job{}, fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalid, job.Workers)
	}

	cmd := strings.ToLower(f.Args[0])
	pos := f.Args[1:]
	var err error
	switch cmd {
	case "bloom":
		job.Mode = ModeBloom
		job.Bloom, err = bloomOptions(cfg.Bloom, f, pos)
	case "sort":
		job.Mode = ModeSort
		job.Sort, err = sortOptions(cfg.Sort, f, pos)
	default:
		job.Mode = ModeTransform
		job.Transform, err = transformOptions(cfg, f, cmd, pos)
	}
	if err != nil {
		return Job{}, err
	}
	return job, job.Validate()
}

// Validate checks the options of the selected engine.
func (j Job) Validate() error {
	var err error
	switch j.Mode {
	case ModeBloom:
		err = j.Bloom.Validate()
	case ModeSort:
		err = j.Sort.Validate()
	default:
		if !j.Transform.Op.Valid() {
			err = fmt.Errorf("unknown operator %v", j.Transform.Op)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func transformOptions(cfg *Config, f Flags, cmd string, pos []string) (transform.Options, error) {
	op, err := ops.Parse(cmd)
	if err != nil {
		return transform.Options{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	opts := transform.Options{
		Op:         op,
		LHS:        pixel.ParseOperand(pixel.SplitTokens(f.LHS)),
		RHS:        pixel.ParseOperand(pixel.SplitTokens(f.RHS)),
		RHSDefault: pixel.ParseOperand(cfg.RHSDefault),
		Params:     ops.Params{Negate: f.Negate, Raw: f.Raw},
	}

	// positional: <color|bits> [raw]
	arg, pos := shift(pos)
	if strings.EqualFold(arg, "raw") {
		opts.Params.Raw = true
		arg = ""
	} else if len(pos) > 0 && strings.EqualFold(pos[0], "raw") {
		opts.Params.Raw = true
		pos = pos[1:]
	}
	if len(pos) > 0 {
		return transform.Options{}, fmt.Errorf("%w: unexpected arguments %q", ErrInvalid, pos)
	}

	if op.Unary() {
		bits := firstNonEmpty(f.Bits, arg)
		if bits == "" {
			return transform.Options{}, fmt.Errorf("%w: %s needs a bit count", ErrInvalid, op)
		}
		n, err := strconv.ParseUint(bits, 10, 8)
		if err != nil {
			return transform.Options{}, fmt.Errorf("%w: bit count %q: %w", ErrInvalid, bits, err)
		}
		opts.Params.Bits = uint8(n)
		return opts, nil
	}

	hex := firstNonEmpty(f.Color, arg, cfg.Color)
	if hex == "" {
		return transform.Options{}, fmt.Errorf("%w: %s needs a color", ErrInvalid, op)
	}
	// ParseError is returned as is so callers can errors.As it.
	if opts.Color, err = pixel.ParseHex(hex); err != nil {
		return transform.Options{}, err
	}
	return opts, nil
}

func bloomOptions(c BloomConfig, f Flags, pos []string) (bloom.Options, error) {
	opts := bloom.Defaults()
	if c.Intensity != nil {
		opts.Intensity = *c.Intensity
	}
	if c.Radius != nil {
		opts.Radius = *c.Radius
	}
	if c.MinThreshold != nil {
		v, err := byteValue("bloom.min_threshold", strconv.Itoa(*c.MinThreshold))
		if err != nil {
			return opts, err
		}
		opts.MinThreshold = v
	}
	if c.MaxThreshold != nil {
		v, err := byteValue("bloom.max_threshold", strconv.Itoa(*c.MaxThreshold))
		if err != nil {
			return opts, err
		}
		opts.MaxThreshold = v
	}

	// positional: [intensity]
	arg, pos := shift(pos)
	if len(pos) > 0 {
		return opts, fmt.Errorf("%w: unexpected arguments %q", ErrInvalid, pos)
	}
	var err error
	if s := firstNonEmpty(f.Intensity, arg); s != "" {
		if opts.Intensity, err = floatValue("intensity", s); err != nil {
			return opts, err
		}
	}
	if f.Radius != "" {
		if opts.Radius, err = floatValue("radius", f.Radius); err != nil {
			return opts, err
		}
	}
	if f.Min != "" {
		if opts.MinThreshold, err = byteValue("min", f.Min); err != nil {
			return opts, err
		}
	}
	if f.Max != "" {
		if opts.MaxThreshold, err = byteValue("max", f.Max); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func sortOptions(c SortConfig, f Flags, pos []string) (pixelsort.Options, error) {
	opts := pixelsort.Defaults()
	if len(pos) > 0 {
		return opts, fmt.Errorf("%w: unexpected arguments %q", ErrInvalid, pos)
	}

	var err error
	if opts.Direction, err = pixelsort.ParseDirection(firstNonEmpty(f.Direction, c.Direction)); err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if opts.Key, err = pixelsort.ParseKey(firstNonEmpty(f.SortBy, c.SortBy)); err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	opts.Reversed = c.Reversed
	if f.Reversed != nil {
		opts.Reversed = *f.Reversed
	}

	if c.MinThreshold != nil {
		opts.MinThreshold = *c.MinThreshold
	}
	if c.MaxThreshold != nil {
		opts.MaxThreshold = *c.MaxThreshold
	}
	if f.Min != "" {
		if opts.MinThreshold, err = floatValue("min", f.Min); err != nil {
			return opts, err
		}
	}
	if f.Max != "" {
		if opts.MaxThreshold, err = floatValue("max", f.Max); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func byteValue(name, s string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q must be 0-255", ErrInvalid, name, s)
	}
	return uint8(n), nil
}

func floatValue(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %w", ErrInvalid, name, s, err)
	}
	return v, nil
}

func shift(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
