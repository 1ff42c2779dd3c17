package converter

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// LoadImage decodes the image at path, or from stdin when path is "" or "-".
// zstd-compressed input is unpacked first. The result is an origin-anchored
// NRGBA raster holding the stored 8-bit values.
func LoadImage(path string, stdin io.Reader) (*image.NRGBA, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, wrap(ErrDecode, path, err)
		}
		defer f.Close()
		r = f
	} else {
		path = ""
		if r == nil {
			return nil, wrap(ErrDecode, path, fmt.Errorf("no input"))
		}
	}

	br := bufio.NewReader(r)
	r = br
	if magic, err := br.Peek(len(zstdMagic)); err == nil && bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, wrap(ErrDecode, path, err)
		}
		defer dec.Close()
		r = dec
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(false))
	if err != nil {
		return nil, wrap(ErrDecode, path, err)
	}
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba, nil
	}
	return imaging.Clone(img), nil
}

// SaveImage encodes img as PNG to path, or to stdout when path is "" or "-".
// A path ending in .zst is zstd-compressed. File output is written to a
// temporary file next to path and renamed over it only once encoding
// succeeds, so a failed run leaves any existing file untouched.
func SaveImage(img image.Image, path string, stdout io.Writer) (err error) {
	var w io.Writer = stdout
	if path != "" && path != "-" {
		f, ferr := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
		if ferr != nil {
			return wrap(ErrEncode, path, ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = wrap(ErrEncode, path, cerr)
			}
			if err == nil {
				if rerr := os.Rename(f.Name(), path); rerr != nil {
					err = wrap(ErrEncode, path, rerr)
				}
			}
			if err != nil {
				os.Remove(f.Name())
			}
		}()
		if ferr := f.Chmod(0o644); ferr != nil {
			return wrap(ErrEncode, path, ferr)
		}
		w = f
	} else {
		path = ""
		if w == nil {
			return wrap(ErrEncode, path, fmt.Errorf("no output"))
		}
	}

	bw := bufio.NewWriter(w)
	w = bw
	var enc *zstd.Encoder
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		if enc, err = zstd.NewWriter(bw); err != nil {
			return wrap(ErrEncode, path, err)
		}
		w = enc
	}

	if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		if enc != nil {
			enc.Close()
		}
		return wrap(ErrEncode, path, err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return wrap(ErrEncode, path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return wrap(ErrEncode, path, err)
	}
	return nil
}
