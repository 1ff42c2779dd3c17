// Package bloom adds a glow around the bright parts of an image.
//
// Pixels whose brightness, max(R, G, B), falls inside [MinThreshold,
// MaxThreshold] form a mask. The mask is Gaussian blurred and added back onto
// the source, scaled by Intensity and clamped to 255. Alpha is copied from
// the source.
package bloom

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"

	"github.com/merridan/imgmod/internal/workerpool"
)

var ErrInvalidOptions = errors.New("invalid bloom options")

// MaxRadius bounds the blur sigma. gift's kernel spans about six sigma.
const MaxRadius = 1000

// Options configures a bloom pass.
type Options struct {
	Intensity    float64 // multiplier on the blurred mask, > 0
	Radius       float64 // Gaussian sigma in pixels, 0 disables the blur
	MinThreshold uint8
	MaxThreshold uint8 // 255 when unset via Defaults
}

// Defaults returns the options used when nothing is configured.
func Defaults() Options {
	return Options{Intensity: 1, Radius: 8, MinThreshold: 200, MaxThreshold: 255}
}

func (o Options) Validate() error {
	if !(o.Intensity > 0) || math.IsInf(o.Intensity, 0) {
		return fmt.Errorf("%w: intensity must be positive, got %v", ErrInvalidOptions, o.Intensity)
	}
	if !(o.Radius >= 0 && o.Radius <= MaxRadius) {
		return fmt.Errorf("%w: radius must be in [0, %d], got %v", ErrInvalidOptions, MaxRadius, o.Radius)
	}
	if o.MinThreshold > o.MaxThreshold {
		return fmt.Errorf("%w: min threshold %d above max threshold %d", ErrInvalidOptions, o.MinThreshold, o.MaxThreshold)
	}
	return nil
}

// Brightness is the bloom key of a pixel.
func Brightness(r, g, b uint8) uint8 { return max(r, g, b) }

// Apply runs the bloom pass. Options are assumed valid.
func Apply(pool *workerpool.Pool, src *image.NRGBA, opts Options) *image.NRGBA {
	mask := Mask(pool, src, opts.MinThreshold, opts.MaxThreshold)
	glow := Blur(mask, opts.Radius, pool.NumWorkers() > 1)
	return Composite(pool, src, glow, opts.Intensity)
}

// Mask keeps the pixels whose brightness is inside [lo, hi] and blacks out
// the rest. The mask is fully opaque.
func Mask(pool *workerpool.Pool, src *image.NRGBA, lo, hi uint8) *image.NRGBA {
	b := src.Bounds()
	mask := image.NewNRGBA(b)
	w := b.Dx()
	pool.ParallelFor(b.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			si := y * src.Stride
			mi := y * mask.Stride
			for x := 0; x < w; x++ {
				s := src.Pix[si : si+4 : si+4]
				m := mask.Pix[mi : mi+4 : mi+4]
				if v := Brightness(s[0], s[1], s[2]); v >= lo && v <= hi {
					m[0], m[1], m[2] = s[0], s[1], s[2]
				}
				m[3] = 0xff
				si += 4
				mi += 4
			}
		}
	})
	return mask
}

// Blur applies a separable Gaussian with the given sigma. Samples past the
// border repeat the edge pixel. gift spreads the work over its own
// goroutines only when parallel is set.
func Blur(mask *image.NRGBA, radius float64, parallel bool) *image.NRGBA {
	if radius <= 0 {
		return mask
	}
	g := gift.New(gift.GaussianBlur(float32(radius)))
	g.SetParallelization(parallel)
	dst := image.NewNRGBA(g.Bounds(mask.Bounds()))
	g.Draw(dst, mask)
	return dst
}

// Composite adds glow*intensity to src, saturating at 255.
func Composite(pool *workerpool.Pool, src, glow *image.NRGBA, intensity float64) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	w := b.Dx()
	pool.ParallelFor(b.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			si := y * src.Stride
			gi := y * glow.Stride
			di := y * dst.Stride
			for x := 0; x < w; x++ {
				s := src.Pix[si : si+4 : si+4]
				g := glow.Pix[gi : gi+4 : gi+4]
				d := dst.Pix[di : di+4 : di+4]
				d[0] = addScaled(s[0], g[0], intensity)
				d[1] = addScaled(s[1], g[1], intensity)
				d[2] = addScaled(s[2], g[2], intensity)
				d[3] = s[3]
				si += 4
				gi += 4
				di += 4
			}
		}
	})
	return dst
}

func addScaled(base, glow uint8, intensity float64) uint8 {
	v := float64(base) + math.Round(float64(glow)*intensity)
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
