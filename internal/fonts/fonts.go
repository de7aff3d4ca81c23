// Package fonts provides the text faces used for text objects and the
// text-tool commit path.
package fonts

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is the point size used when a caller passes a non-positive size.
const DefaultSize = 16

var (
	parseOnce sync.Once
	parsed    *opentype.Font
	parseErr  error

	faces sync.Map // map[float64]font.Face
)

func regular() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Face returns a cached face for size, measured at 72 DPI so that one point
// equals one buffer pixel.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultSize
	}
	size = math.Round(size*100) / 100
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %.2f: %w", size, err)
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// Measure returns the advance width of text at size in pixels.
func Measure(text string, size float64) (int, error) {
	face, err := Face(size)
	if err != nil {
		return 0, err
	}
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Ceil(), nil
}

// Draw paints text with its baseline starting at (x, y).
func Draw(dst *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := Face(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
	return nil
}
