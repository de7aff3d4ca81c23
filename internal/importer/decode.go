// Package importer decodes image files off the editor goroutine.
package importer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/example/photoedit/internal/surface"
)

// sniffLen is how much of the input is inspected to identify its format.
const sniffLen = 262

// MaxPixels caps the declared width×height of an import. Headers are
// checked against it before any pixel memory is allocated.
const MaxPixels = surface.MaxDimension * surface.MaxDimension

// ErrImageDecode is wrapped by every decode failure.
var ErrImageDecode = errors.New("image decode failed")

// DecodeError reports why an import produced no image.
type DecodeError struct {
	Name   string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "cannot import"
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Is(target error) bool { return target == ErrImageDecode }

func (e *DecodeError) Unwrap() error { return e.Err }

type codec struct {
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

var decoders = map[string]codec{
	"png":  {png.Decode, png.DecodeConfig},
	"jpg":  {jpeg.Decode, jpeg.DecodeConfig},
	"gif":  {gif.Decode, gif.DecodeConfig},
	"bmp":  {bmp.Decode, bmp.DecodeConfig},
	"tif":  {tiff.Decode, tiff.DecodeConfig},
	"webp": {webp.Decode, webp.DecodeConfig},
}

// checkSize reads the image header through a tee and rejects dimensions
// over MaxPixels. The returned reader replays the header bytes.
func checkSize(c codec, r io.Reader) (io.Reader, error) {
	var head bytes.Buffer
	cfg, err := c.config(io.TeeReader(r, &head))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("image %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}
	return io.MultiReader(&head, r), nil
}

// Formats lists the accepted file extensions.
func Formats() []string {
	return []string{"png", "jpg", "gif", "bmp", "tif", "webp"}
}

// Decode identifies the format of r by its magic bytes and decodes it. The
// context is checked before and after decoding; decoders themselves are not
// interruptible.
func Decode(ctx context.Context, name string, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(r, 4096)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Name: name, Err: err}
	}
	if len(head) == 0 {
		return nil, &DecodeError{Name: name, Err: errors.New("empty input")}
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return nil, &DecodeError{Name: name, Err: errors.New("unrecognised format")}
	}
	c, ok := decoders[kind.Extension]
	if !ok {
		return nil, &DecodeError{Name: name, Format: kind.MIME.Value, Err: errors.New("unsupported format")}
	}
	body, err := checkSize(c, br)
	if err != nil {
		return nil, &DecodeError{Name: name, Format: kind.Extension, Err: err}
	}
	img, err := c.decode(body)
	if err != nil {
		return nil, &DecodeError{Name: name, Format: kind.Extension, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, &DecodeError{Name: name, Format: kind.Extension, Err: fmt.Errorf("empty image %v", b)}
	}
	return img, nil
}
