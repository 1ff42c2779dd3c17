package converter

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/merridan/imgmod/internal/bloom"
	"github.com/merridan/imgmod/internal/config"
	"github.com/merridan/imgmod/internal/logging"
	"github.com/merridan/imgmod/internal/pixelsort"
	"github.com/merridan/imgmod/internal/transform"
	"github.com/merridan/imgmod/internal/workerpool"
)

var (
	ErrDecode = errors.New("decode image")
	ErrEncode = errors.New("encode image")
)

// Run executes a job end to end: decode, process, encode. stdin and stdout
// are used when the job has no input or output path.
func Run(job config.Job, stdin io.Reader, stdout io.Writer) error {
	if err := job.Validate(); err != nil {
		return err
	}

	src, err := LoadImage(job.Input, stdin)
	if err != nil {
		return err
	}
	b := src.Bounds()
	logging.Debug("decoded %dx%d image from %s", b.Dx(), b.Dy(), describe(job.Input, "stdin"))

	pool := workerpool.New(job.Workers)
	defer pool.Close()

	start := time.Now()
	out := Process(pool, src, job)
	logging.Debug("%s finished in %v on %d workers", jobName(job), time.Since(start), pool.NumWorkers())

	if err := SaveImage(out, job.Output, stdout); err != nil {
		return err
	}
	if job.Output != "" {
		logging.Info("wrote %s", job.Output)
	}
	return nil
}

// Process runs the job's engine on src and returns a new raster of the
// same size.
func Process(pool *workerpool.Pool, src *image.NRGBA, job config.Job) *image.NRGBA {
	switch job.Mode {
	case config.ModeBloom:
		return bloom.Apply(pool, src, job.Bloom)
	case config.ModeSort:
		return pixelsort.Apply(pool, src, job.Sort)
	default:
		return transform.Apply(pool, src, job.Transform)
	}
}

func jobName(job config.Job) string {
	if job.Mode != config.ModeTransform {
		return job.Mode.String()
	}
	t := job.Transform
	if t.Op.Unary() {
		return fmt.Sprintf("%s %d", t.Op, t.Params.Bits)
	}
	return fmt.Sprintf("%s %s", t.Op, t.Color.Hex())
}

func describe(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}

func wrap(sentinel error, path string, err error) error {
	return fmt.Errorf("%w %s: %w", sentinel, describe(path, "stream"), err)
}
