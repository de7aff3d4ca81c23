package clipboard

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/example/photoedit/internal/importer"
)

// memory is an in-process board.
type memory map[format][]byte

func (m memory) read(f format) ([]byte, error) { return m[f], nil }

func (m memory) write(f format, data []byte) error {
	m[f] = append([]byte(nil), data...)
	return nil
}

func useBoard(t *testing.T, b board) {
	t.Helper()
	prev := platform
	platform = b
	t.Cleanup(func() { platform = prev })
}

func TestWriteImageThenImport(t *testing.T) {
	useBoard(t, memory{})
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{0, 0, 255, 255})
	if err := WriteImage(img); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	data, err := ReadImageData()
	if err != nil {
		t.Fatalf("ReadImageData: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("clipboard holds non-PNG data: %v", err)
	}

	im := importer.New(1)
	im.Start(context.Background(), Source())
	res := <-im.Results()
	if res.Err != nil {
		t.Fatalf("import: %v", res.Err)
	}
	if got := res.Image.Bounds().Size(); got != image.Pt(3, 2) {
		t.Fatalf("imported size = %v", got)
	}
}

func TestEmptyClipboard(t *testing.T) {
	useBoard(t, memory{})
	if _, err := ReadText(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := ReadImageData(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestReadText(t *testing.T) {
	useBoard(t, memory{formatText: []byte("hello")})
	got, err := ReadText()
	if err != nil || got != "hello" {
		t.Fatalf("ReadText = %q, %v", got, err)
	}
}
