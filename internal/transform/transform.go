// Package transform applies a catalog operator to every pixel of a raster.
package transform

import (
	"image"

	"github.com/merridan/imgmod/internal/ops"
	"github.com/merridan/imgmod/internal/pixel"
	"github.com/merridan/imgmod/internal/workerpool"
)

// Options is the read-only per-run configuration of the driver.
type Options struct {
	Op     ops.Op
	Color  pixel.Color
	LHS    pixel.Operand // nil: pixel.DefaultLeft
	RHS    pixel.Operand // nil: RHSDefault
	Params ops.Params

	// RHSDefault overrides pixel.DefaultRight when set.
	RHSDefault pixel.Operand
}

// Apply returns a new raster with op applied to every pixel of src. Rows are
// spread over pool; a nil pool runs on the caller.
func Apply(pool *workerpool.Pool, src *image.NRGBA, opts Options) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return dst
	}

	rhsDefault := pixel.DefaultRight
	if len(opts.RHSDefault) > 0 {
		rhsDefault = opts.RHSDefault
	}
	// The right operand never changes per pixel.
	rhs := opts.RHS.Resolve(opts.Color.Triple(), rhsDefault)

	pool.ParallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			si := y * src.Stride
			di := y * dst.Stride
			for x := 0; x < w; x++ {
				s := src.Pix[si : si+4 : si+4]
				lhs := opts.LHS.Resolve([3]uint8{s[0], s[1], s[2]}, pixel.DefaultLeft)
				out := ops.Apply(opts.Op, lhs, rhs, opts.Params)
				d := dst.Pix[di : di+4 : di+4]
				d[0], d[1], d[2], d[3] = out[0], out[1], out[2], s[3]
				si += 4
				di += 4
			}
		}
	})
	return dst
}
