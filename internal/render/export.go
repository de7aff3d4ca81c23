package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow describes a drop shadow added around an exported frame.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow suits a full-canvas export.
var DefaultShadow = Shadow{Radius: 24, Offset: image.Pt(16, 16), Opacity: 0.55}

// WithShadow returns frame on a transparent canvas grown to hold a blurred
// copy of its alpha, shifted by sh.Offset. The result is zero-based; the
// second value is where the frame's top-left corner landed. A shadow with
// no opacity returns frame unchanged.
func WithShadow(frame *image.RGBA, sh Shadow) (*image.RGBA, image.Point) {
	if frame == nil || frame.Bounds().Empty() || sh.Opacity <= 0 {
		return frame, image.Point{}
	}
	if sh.Opacity > 1 {
		sh.Opacity = 1
	}
	if sh.Radius < 0 {
		sh.Radius = 0
	}

	src := frame.Bounds()
	padded := src.Inset(-sh.Radius)
	cast := padded.Add(sh.Offset)
	all := src.Union(cast)

	mask := alphaMask(frame, padded)
	boxBlur(mask, sh.Radius)

	out := image.NewRGBA(all.Sub(all.Min))
	ink := image.NewUniform(color.RGBA{A: uint8(sh.Opacity*255 + 0.5)})
	draw.DrawMask(out, cast.Sub(all.Min), ink, image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(out, src.Sub(all.Min), frame, src.Min, draw.Over)
	return out, src.Min.Sub(all.Min)
}

// alphaMask copies the alpha of img into a zero-based mask covering area.
func alphaMask(img *image.RGBA, area image.Rectangle) *image.Gray {
	mask := image.NewGray(area.Sub(area.Min))
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-area.Min.X, y-area.Min.Y, color.Gray{Y: a})
			}
		}
	}
	return mask
}

// boxBlur averages m in place over a (2r+1) window, rows then columns.
func boxBlur(m *image.Gray, r int) {
	if r <= 0 {
		return
	}
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	line := make([]uint8, max(w, h))
	sums := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		blurLine(m.Pix[y*m.Stride:], 1, w, r, line, sums)
	}
	for x := 0; x < w; x++ {
		blurLine(m.Pix[x:], m.Stride, h, r, line, sums)
	}
}

// blurLine blurs n samples of pix spaced step apart, clamping the window at
// both ends.
func blurLine(pix []uint8, step, n, r int, line []uint8, sums []int) {
	for i := 0; i < n; i++ {
		sums[i+1] = sums[i] + int(pix[i*step])
	}
	for i := 0; i < n; i++ {
		lo, hi := max(i-r, 0), min(i+r, n-1)
		line[i] = uint8((sums[hi+1] - sums[lo]) / (hi - lo + 1))
	}
	for i := 0; i < n; i++ {
		pix[i*step] = line[i]
	}
}
