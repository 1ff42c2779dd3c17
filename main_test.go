package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/merridan/imgmod/internal/config"
	"github.com/merridan/imgmod/internal/pixel"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readPNG(t *testing.T, r *bytes.Buffer) image.Image {
	t.Helper()
	img, err := png.Decode(r)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	return img
}

func TestParseInterleaved(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	raw := fs.Bool("raw", false, "")
	in := fs.String("in", "", "")

	pos, err := parseInterleaved(fs, []string{"-in", "a.png", "sub", "FF0000", "-raw"})
	if err != nil {
		t.Fatalf("parseInterleaved: %v", err)
	}
	if !*raw || *in != "a.png" {
		t.Errorf("flags not parsed: raw=%v in=%q", *raw, *in)
	}
	if len(pos) != 2 || pos[0] != "sub" || pos[1] != "FF0000" {
		t.Errorf("positional = %q", pos)
	}
}

func TestRunExplicitFalseOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	cfgPath := filepath.Join(dir, "config.json")

	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{200, 200, 200, 255})
	src.SetNRGBA(1, 0, color.NRGBA{100, 100, 100, 255})
	src.SetNRGBA(2, 0, color.NRGBA{150, 150, 150, 255})
	writePNG(t, in, src)
	cfg := `{"workers": 2, "log_level": "error", "sort": {"reversed": true}}`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		args  []string
		first uint32
	}{
		{[]string{"sort"}, 200},
		{[]string{"sort", "-reversed=false", "-workers", "0"}, 100},
	} {
		var stdout, stderr bytes.Buffer
		args := append([]string{"-config", cfgPath, "-in", in}, tc.args...)
		if err := run(args, nil, &stdout, &stderr); err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		r, _, _, _ := readPNG(t, &stdout).At(0, 0).RGBA()
		if r>>8 != tc.first {
			t.Errorf("%v: first pixel = %d, want %d", tc.args, r>>8, tc.first)
		}
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{200, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 255})
	writePNG(t, in, src)

	var stdout, stderr bytes.Buffer
	args := []string{"-config", filepath.Join(dir, "none.json"), "-in", in, "or", "#0000FF"}
	if err := run(args, nil, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}

	out := readPNG(t, &stdout)
	r, g, b, a := out.At(0, 0).RGBA()
	got := [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8}
	// default right operand reads #0000FF as (r, b, g)
	if got != [4]uint32{200, 255, 0, 255} {
		t.Errorf("pixel 0 = %v", got)
	}
}

func TestRunOutputFileAndConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	cfgPath := filepath.Join(dir, "config.json")

	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{5, 5, 5, 255})
	writePNG(t, in, src)
	if err := os.WriteFile(cfgPath, []byte(`{"color": "0A0A0A", "log_level": "error"}`), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	args := []string{"-config", cfgPath, "-in", in, "-out", out, "sub", "raw"}
	if err := run(args, nil, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty when -out is set")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img := readPNG(t, bytes.NewBuffer(data))
	r, _, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 251 {
		t.Errorf("raw sub 5-10 = %d, want 251", r>>8)
	}
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	noCfg := filepath.Join(t.TempDir(), "none.json")

	err := run([]string{"-config", noCfg, "xor", "#XYZXYZ"}, bytes.NewReader(nil), &stdout, &stderr)
	var pe *pixel.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("bad color: err = %v", err)
	}

	err = run([]string{"-config", noCfg}, nil, &stdout, &stderr)
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("no op: err = %v", err)
	}

	err = run([]string{"-config", noCfg, "-bits", "x", "left"}, nil, &stdout, &stderr)
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("bad bits: err = %v", err)
	}

	if err := run([]string{"-h"}, nil, &stdout, &stderr); err != nil {
		t.Errorf("-h: err = %v", err)
	}
}
