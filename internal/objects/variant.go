package objects

import (
	"image"
	"image/color"
	"math"

	"github.com/example/photoedit/internal/fonts"
	"github.com/example/photoedit/internal/surface"
)

// Kind names a variant for display in the layer panel.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
)

// Variant is the closed set of object payloads. The unexported methods keep
// implementations inside this package; adding a variant means implementing
// every per-variant operation before it compiles.
type Variant interface {
	kind() Kind
	// extent returns the hit box relative to the object origin.
	extent() (minX, minY, maxX, maxY float64)
	// outline returns the selection box relative to the object origin.
	outline() (minX, minY, maxX, maxY float64)
	paint(dst *image.RGBA, x, y float64) error
}

// Image is a decoded bitmap placed at its own width and height.
type Image struct {
	Bitmap image.Image
	Width  int
	Height int
}

// NewImage wraps img using its natural size.
func NewImage(img image.Image) *Image {
	b := img.Bounds()
	return &Image{Bitmap: img, Width: b.Dx(), Height: b.Dy()}
}

func (*Image) kind() Kind { return KindImage }

func (v *Image) extent() (float64, float64, float64, float64) {
	return 0, 0, float64(v.Width), float64(v.Height)
}

func (v *Image) outline() (float64, float64, float64, float64) { return v.extent() }

func (v *Image) paint(dst *image.RGBA, x, y float64) error {
	if v.Bitmap == nil {
		return nil
	}
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	surface.DrawImage(dst, image.Rect(x0, y0, x0+v.Width, y0+v.Height), v.Bitmap)
	return nil
}

// Text is a single line drawn with its origin on the baseline.
type Text struct {
	Content string
	Size    float64
	Color   color.RGBA
}

func (*Text) kind() Kind { return KindText }

func (v *Text) width() float64 {
	w, err := fonts.Measure(v.Content, v.Size)
	if err != nil {
		return float64(len(v.Content)) * v.Size / 2
	}
	return float64(w)
}

func (v *Text) extent() (float64, float64, float64, float64) {
	return 0, -v.Size, v.width(), 0
}

func (v *Text) outline() (float64, float64, float64, float64) {
	return 0, -v.Size, v.width(), -v.Size + v.Size*1.2
}

func (v *Text) paint(dst *image.RGBA, x, y float64) error {
	if v.Content == "" {
		return nil
	}
	return fonts.Draw(dst, int(math.Round(x)), int(math.Round(y)), v.Content, v.Color, v.Size)
}
