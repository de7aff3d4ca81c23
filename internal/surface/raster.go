package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// stamp paints a round brush tip of diameter thick centred on (x, y).
func stamp(img *image.RGBA, x, y, thick int, col color.Color) {
	if thick <= 1 {
		if image.Pt(x, y).In(img.Bounds()) {
			img.Set(x, y, col)
		}
		return
	}
	fillCircle(img, x, y, thick/2, col)
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

type plotFunc func(img *image.RGBA, x, y, thick int, col color.Color)

// bresenham walks the line from (x0, y0) to (x1, y1) calling plot at every step.
func bresenham(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int, plot plotFunc) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		plot(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawLine draws a square-tipped line of the given thickness.
func DrawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	bresenham(img, x0, y0, x1, y1, col, thick, setThickPixel)
}

// drawRoundLine draws a line with round caps and joins.
func drawRoundLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	bresenham(img, x0, y0, x1, y1, col, thick, stamp)
}

func drawCircleThin(img *image.RGBA, cx, cy, r int, col color.Color) {
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			px := cx + p[0]
			py := cy + p[1]
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// DrawCircle draws a circle outline centred at (cx, cy) with radius r.
func DrawCircle(img *image.RGBA, cx, cy, r int, col color.Color, thick int) {
	if thick <= 1 {
		drawCircleThin(img, cx, cy, r, col)
		return
	}
	start := -thick / 2
	for i := 0; i < thick; i++ {
		rr := r + start + i
		if rr >= 0 {
			drawCircleThin(img, cx, cy, rr, col)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px := cx + dx
				py := cy + dy
				if image.Pt(px, py).In(img.Bounds()) {
					img.Set(px, py, col)
				}
			}
		}
	}
}

// DrawRect draws the outline of rect.
func DrawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	DrawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	DrawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	DrawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	DrawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// drawDashedLine draws an axis-aligned dashed line. Dashes alternate between
// on and off; a nil off colour leaves the gaps untouched.
func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thickness int, on, off color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	if length < 0 {
		length = -length
	}
	plot := func(i int, col color.Color) {
		for t := 0; t < thickness; t++ {
			if horiz {
				if x0 < x1 {
					img.Set(x0+i, y0+t, col)
				} else {
					img.Set(x0-i, y0+t, col)
				}
			} else {
				if y0 < y1 {
					img.Set(x0+t, y0+i, col)
				} else {
					img.Set(x0+t, y0-i, col)
				}
			}
		}
	}
	for i := 0; i <= length; i += dash * 2 {
		for j := 0; j < dash && i+j <= length; j++ {
			plot(i+j, on)
		}
		if off == nil {
			continue
		}
		for j := 0; j < dash && i+dash+j <= length; j++ {
			plot(i+dash+j, off)
		}
	}
}

// DrawDashedRect outlines rect with a dashed stroke.
func DrawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thickness int, on, off color.Color) {
	if dash <= 0 {
		dash = 1
	}
	drawDashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, dash, thickness, on, off)
	drawDashedLine(img, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, dash, thickness, on, off)
	drawDashedLine(img, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, dash, thickness, on, off)
	drawDashedLine(img, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, dash, thickness, on, off)
}

// DrawImage scales src into rect of dst, compositing over existing pixels.
func DrawImage(dst *image.RGBA, rect image.Rectangle, src image.Image) {
	if src == nil || rect.Empty() {
		return
	}
	if rect.Size() == src.Bounds().Size() {
		draw.Draw(dst, rect, src, src.Bounds().Min, draw.Over)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, rect, src, src.Bounds(), draw.Over, nil)
}
