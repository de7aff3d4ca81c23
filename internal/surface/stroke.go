package surface

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/example/photoedit/internal/fonts"
	"github.com/example/photoedit/internal/geom"
)

// Pen is the current stroke colour and width.
type Pen struct {
	Color color.RGBA
	Width int
}

func (p Pen) width() int {
	if p.Width < 1 {
		return 1
	}
	return p.Width
}

// Shape selects the outline drawn by DrawShape.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeCircle
	ShapeLine
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	case ShapeLine:
		return "line"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// StrokeFreehand renders a smoothed curve through points. Each interior
// sample acts as the control point of a quadratic segment ending at the
// midpoint to the next sample; the final segment ends on the last sample.
// Fewer than two points draw nothing.
func (s *Surface) StrokeFreehand(points []geom.Point, pen Pen) {
	n := len(points)
	if n < 2 {
		return
	}
	w := pen.width()
	cur := points[0]
	if n == 2 {
		s.roundSegment(cur, points[1], pen.Color, w)
		return
	}
	for i := 1; i < n-2; i++ {
		mid := points[i].Mid(points[i+1])
		cur = s.quadTo(cur, points[i], mid, pen.Color, w)
	}
	s.quadTo(cur, points[n-2], points[n-1], pen.Color, w)
}

// quadTo flattens the quadratic bezier from p0 through control c to p1 and
// returns p1.
func (s *Surface) quadTo(p0, c, p1 geom.Point, col color.RGBA, w int) geom.Point {
	length := p0.Dist(c) + c.Dist(p1)
	steps := int(math.Ceil(length / 2))
	if steps < 1 {
		steps = 1
	}
	prev := p0
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		mt := 1 - t
		next := geom.Pt(
			mt*mt*p0.X+2*mt*t*c.X+t*t*p1.X,
			mt*mt*p0.Y+2*mt*t*c.Y+t*t*p1.Y,
		)
		s.roundSegment(prev, next, col, w)
		prev = next
	}
	return p1
}

func (s *Surface) roundSegment(a, b geom.Point, col color.RGBA, w int) {
	pa, pb := a.Image(), b.Image()
	drawRoundLine(s.img, pa.X, pa.Y, pb.X, pb.Y, col, w)
}

// DrawShape draws a single outline from anchor to current. Circles are
// centred on anchor with a radius reaching current.
func (s *Surface) DrawShape(kind Shape, anchor, current geom.Point, pen Pen) {
	w := pen.width()
	a, c := anchor.Image(), current.Image()
	switch kind {
	case ShapeRectangle:
		DrawRect(s.img, image.Rect(a.X, a.Y, c.X, c.Y), pen.Color, w)
	case ShapeCircle:
		r := int(math.Round(anchor.Dist(current)))
		DrawCircle(s.img, a.X, a.Y, r, pen.Color, w)
	case ShapeLine:
		drawRoundLine(s.img, a.X, a.Y, c.X, c.Y, pen.Color, w)
	}
}

// PreviewShape restores floor, the last committed snapshot, and draws one
// outline on top so that live resizing never accumulates.
func (s *Surface) PreviewShape(kind Shape, anchor, current geom.Point, pen Pen, floor []byte) error {
	if err := s.Restore(floor); err != nil {
		return fmt.Errorf("preview %s: %w", kind, err)
	}
	s.DrawShape(kind, anchor, current, pen)
	return nil
}

// DrawText paints text with its baseline origin at p.
func (s *Surface) DrawText(text string, p geom.Point, size float64, col color.RGBA) error {
	o := p.Image()
	return fonts.Draw(s.img, o.X, o.Y, text, col, size)
}

// DrawImage paints src scaled into rect.
func (s *Surface) DrawImage(src image.Image, rect image.Rectangle) {
	DrawImage(s.img, rect, src)
}
