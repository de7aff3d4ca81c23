// Package surface owns the editor's pixel buffer and the immediate-mode
// drawing primitives used for freehand ink, shape outlines and committed
// objects.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Surface is a fixed-size RGBA pixel buffer. It is never resized; a new size
// requires a new Surface (and a fresh history).
type Surface struct {
	img  *image.RGBA
	fill color.RGBA
}

// New validates size and returns a Surface filled with fill.
func New(size Size, fill color.RGBA) (*Surface, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	s := &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, size.Width, size.Height)),
		fill: fill,
	}
	s.Clear()
	return s, nil
}

// Clear repaints the whole buffer with the background fill.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{s.fill}, image.Point{}, draw.Src)
}

// Image exposes the live buffer. Callers outside the owning goroutine must
// treat it as read-only.
func (s *Surface) Image() *image.RGBA { return s.img }

// Bounds returns the buffer bounds.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Size returns the buffer dimensions.
func (s *Surface) Size() Size {
	return Size{Width: s.img.Bounds().Dx(), Height: s.img.Bounds().Dy()}
}

// Fill returns the background colour.
func (s *Surface) Fill() color.RGBA { return s.fill }

// Pixels returns a copy of the raw pixel data.
func (s *Surface) Pixels() []byte {
	out := make([]byte, len(s.img.Pix))
	copy(out, s.img.Pix)
	return out
}

// Restore overwrites the buffer with pix, which must come from Pixels on a
// surface of the same size.
func (s *Surface) Restore(pix []byte) error {
	if len(pix) != len(s.img.Pix) {
		return fmt.Errorf("restore: snapshot holds %d bytes, buffer holds %d", len(pix), len(s.img.Pix))
	}
	copy(s.img.Pix, pix)
	return nil
}

// Snapshot returns an independent image copy of the buffer.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}
