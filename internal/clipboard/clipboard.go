// Package clipboard moves images and text between the editor and the
// desktop clipboard.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/example/photoedit/internal/importer"
)

type format int

const (
	formatText format = iota
	formatImage
)

func (f format) String() string {
	if f == formatImage {
		return "image"
	}
	return "text"
}

// ErrEmpty is returned when the clipboard holds nothing in the wanted format.
var ErrEmpty = errors.New("clipboard is empty")

// board is the platform clipboard. Each build provides one.
type board interface {
	read(f format) ([]byte, error)
	write(f format, data []byte) error
}

func get(f format) ([]byte, error) {
	data, err := platform.read(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("read %s: %w", f, ErrEmpty)
	}
	return data, nil
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return platform.write(formatImage, buf.Bytes())
}

// ReadImageData returns the encoded image held by the clipboard.
func ReadImageData() ([]byte, error) { return get(formatImage) }

// ReadText returns UTF-8 text held by the clipboard.
func ReadText() (string, error) {
	data, err := get(formatText)
	return string(data), err
}

// Source imports whatever image the clipboard holds. Decoding happens in the
// importer so a bad clipboard payload fails like any other corrupt file.
func Source() importer.Source {
	return importer.SourceFunc{
		Label: "clipboard",
		Fetch: func(context.Context) ([]byte, error) { return ReadImageData() },
	}
}
