// Package pixelsort reorders pixels along rows or columns.
//
// Each line is split into maximal runs of pixels whose key lies inside
// [MinThreshold, MaxThreshold]. Every run is stable-sorted by key in place;
// pixels outside the band never move and end runs.
package pixelsort

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/merridan/imgmod/internal/workerpool"
)

var ErrInvalidOptions = errors.New("invalid sort options")

// Direction picks the traversal.
type Direction uint8

const (
	Horizontal Direction = iota // sort along rows
	Vertical                    // sort along columns
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal", "h", "row", "rows":
		return Horizontal, nil
	case "vertical", "v", "column", "columns", "col":
		return Vertical, nil
	}
	return 0, fmt.Errorf("unknown sort direction %q", s)
}

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

type Options struct {
	Direction    Direction
	Key          Key
	MinThreshold float64
	MaxThreshold float64
	Reversed     bool
}

// Defaults sorts whole rows by brightness, ascending.
func Defaults() Options {
	return Options{Direction: Horizontal, Key: Brightness, MinThreshold: 0, MaxThreshold: 1}
}

func (o Options) Validate() error {
	in := func(v float64) bool { return v >= 0 && v <= 1 && !math.IsNaN(v) }
	if !in(o.MinThreshold) || !in(o.MaxThreshold) {
		return fmt.Errorf("%w: thresholds must be within [0, 1], got [%v, %v]", ErrInvalidOptions, o.MinThreshold, o.MaxThreshold)
	}
	if o.MinThreshold > o.MaxThreshold {
		return fmt.Errorf("%w: min threshold %v above max threshold %v", ErrInvalidOptions, o.MinThreshold, o.MaxThreshold)
	}
	if _, ok := keyNames[o.Key]; !ok {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, o.Key)
	}
	return nil
}

type entry struct {
	px  [4]uint8
	key float64
}

// Apply sorts a copy of src. Options are assumed valid.
func Apply(pool *workerpool.Pool, src *image.NRGBA, opts Options) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}
	if w == 0 || h == 0 {
		return dst
	}

	// offset of pixel i on line l, and the step between pixels
	lines, length := h, w
	base := func(l int) int { return l * dst.Stride }
	step := 4
	if opts.Direction == Vertical {
		lines, length = w, h
		base = func(l int) int { return l * 4 }
		step = dst.Stride
	}

	pool.ParallelForEach(lines, func(l int) {
		buf := make([]entry, length)
		off := base(l)
		for i := range buf {
			p := off + i*step
			copy(buf[i].px[:], dst.Pix[p:p+4])
			buf[i].key = opts.Key.Of(buf[i].px[0], buf[i].px[1], buf[i].px[2])
		}
		if !sortLine(buf, opts) {
			return
		}
		for i := range buf {
			p := off + i*step
			copy(dst.Pix[p:p+4], buf[i].px[:])
		}
	})
	return dst
}

// sortLine sorts each in-band run of line and reports whether anything
// could have moved.
func sortLine(line []entry, opts Options) bool {
	order := func(a, b entry) int { return cmp.Compare(a.key, b.key) }
	if opts.Reversed {
		order = func(a, b entry) int { return cmp.Compare(b.key, a.key) }
	}

	moved := false
	for _, r := range Runs(keys(line), opts.MinThreshold, opts.MaxThreshold) {
		if r.End-r.Start < 2 {
			continue
		}
		slices.SortStableFunc(line[r.Start:r.End], order)
		moved = true
	}
	return moved
}

func keys(line []entry) []float64 {
	k := make([]float64, len(line))
	for i := range line {
		k[i] = line[i].key
	}
	return k
}

// Run is a half-open span [Start, End) of a line.
type Run struct{ Start, End int }

// Runs returns the maximal spans of keys inside [lo, hi], left to right.
func Runs(keys []float64, lo, hi float64) []Run {
	var runs []Run
	start := -1
	for i, k := range keys {
		inBand := k >= lo && k <= hi
		switch {
		case inBand && start < 0:
			start = i
		case !inBand && start >= 0:
			runs = append(runs, Run{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Run{start, len(keys)})
	}
	return runs
}
