package converter

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/merridan/imgmod/internal/config"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{200, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 128})
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestRunStreams(t *testing.T) {
	job, err := config.NewJob(nil, config.Flags{Args: []string{"or", "#0000FF"}, RHS: "r,g,b"})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	var out bytes.Buffer
	if err := Run(job, bytes.NewReader(encodePNG(t, testImage())), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	img, err := LoadImage("", &out)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{200, 0, 255, 255}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{0, 0, 255, 128}) {
		t.Errorf("pixel 1 = %v", got)
	}
}

func TestRunFilesAndZstd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png.zst")

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write(encodePNG(t, testImage())); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(in, compressed.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.png.zst")
	job, err := config.NewJob(nil, config.Flags{Args: []string{"sort"}, Input: in, Output: out})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if err := Run(job, nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	img, err := LoadImage(out, nil)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	// brightness 0 sorts before 200
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 0, 128}) {
		t.Errorf("pixel 0 = %v", got)
	}
}

func TestLoadImageErrors(t *testing.T) {
	_, err := LoadImage("", bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("garbage: err = %v", err)
	}
	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"), nil)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestSaveImageError(t *testing.T) {
	err := SaveImage(testImage(), filepath.Join(t.TempDir(), "no", "such", "dir.png"), nil)
	if !errors.Is(err, ErrEncode) {
		t.Errorf("err = %v", err)
	}
}

func TestSaveImageFailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	if err := os.WriteFile(out, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	// png refuses to encode an empty image
	err := SaveImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), out, nil)
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("err = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "previous" {
		t.Errorf("existing output changed: %q, %v", data, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("left %d files behind, want only out.png", len(entries))
	}

	if err := SaveImage(testImage(), out, nil); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	img, err := LoadImage(out, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestLoadImageNormalizesBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.RGBA{10, 20, 30, 255})
	img, err := LoadImage("", bytes.NewReader(encodePNG(t, src)))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(2, 1); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestBloomJobKeepsMidGray(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 128
	}
	job, err := config.NewJob(nil, config.Flags{Args: []string{"bloom"}, Min: "255"})
	if err != nil {
		t.Fatal(err)
	}
	out := Process(nil, src, job)
	if !bytes.Equal(out.Pix, src.Pix) {
		t.Errorf("bloom changed a mid-gray image")
	}
}

func TestJobName(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"xor", "#1a2b3c"}, "xor #1A2B3C"},
		{[]string{"left", "3"}, "left 3"},
		{[]string{"sort"}, "sort"},
	} {
		job, err := config.NewJob(nil, config.Flags{Args: tc.args})
		if err != nil {
			t.Fatalf("NewJob(%v): %v", tc.args, err)
		}
		if got := jobName(job); got != tc.want {
			t.Errorf("jobName(%v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}
