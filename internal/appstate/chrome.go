package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/photoedit/internal/fonts"
	"github.com/example/photoedit/internal/layers"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/theme"
	"github.com/example/photoedit/internal/tools"
	"github.com/example/photoedit/internal/viewport"
)

const (
	titleHeight     = 24
	bottomHeight    = 24
	layersWidth     = 180
	layerRowHeight  = 20
	layerButtonSize = 16
	minToolbarWidth = 48
	messageSize     = 24
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var checkerLight = color.RGBA{220, 220, 220, 255}
var checkerDark = color.RGBA{192, 192, 192, 255}

// layout splits the window into chrome and the canvas container.
type layout struct {
	title, toolbar, canvas, layers, bottom image.Rectangle
}

func computeLayout(width, height, toolbarWidth int) layout {
	return layout{
		title:   image.Rect(0, 0, width, titleHeight),
		toolbar: image.Rect(0, titleHeight, toolbarWidth, height-bottomHeight),
		canvas:  image.Rect(toolbarWidth, titleHeight, width-layersWidth, height-bottomHeight),
		layers:  image.Rect(width-layersWidth, titleHeight, width, height-bottomHeight),
		bottom:  image.Rect(0, height-bottomHeight, width, height),
	}
}

func containerRect(r image.Rectangle) viewport.Rect {
	return viewport.Rect{Left: float64(r.Min.X), Top: float64(r.Min.Y), Width: float64(r.Dx()), Height: float64(r.Dy())}
}

func displayRect(r viewport.Rect) image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Left+r.Width), int(r.Top+r.Height))
}

// layerButtons are drawn right to left at the end of each layer row.
var layerButtons = []struct {
	label string
	op    layers.Op
}{
	{"X", layers.OpDelete},
	{"v", layers.OpBackward},
	{"^", layers.OpForward},
	{"L", layers.OpToggleLock},
	{"V", layers.OpToggleVisible},
}

func layerRowRect(panel image.Rectangle, i int) image.Rectangle {
	y := panel.Min.Y + layerRowHeight + i*layerRowHeight
	return image.Rect(panel.Min.X, y, panel.Max.X, y+layerRowHeight)
}

func layerButtonRect(row image.Rectangle, i int) image.Rectangle {
	x := row.Max.X - 2 - (i+1)*(layerButtonSize+2)
	y := row.Min.Y + (layerRowHeight-layerButtonSize)/2
	return image.Rect(x, y, x+layerButtonSize, y+layerButtonSize)
}

// layerHit maps a click in the layers panel to a command.
func layerHit(view layers.View, panel image.Rectangle, p image.Point) (layers.Command, bool) {
	for i, row := range view {
		rr := layerRowRect(panel, i)
		if !p.In(rr) {
			continue
		}
		for j, b := range layerButtons {
			if p.In(layerButtonRect(rr, j)) {
				return layers.Command{Op: b.op, ID: row.ID}, true
			}
		}
		return layers.Command{Op: layers.OpSelect, ID: row.ID}, true
	}
	return layers.Command{}, false
}

func drawLayers(dst *image.RGBA, th *theme.Theme, panel image.Rectangle, view layers.View) {
	draw.Draw(dst, panel, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	drawLabel(dst, panel.Min.X+4, panel.Min.Y+14, fmt.Sprintf("Layers (%d)", len(view)), th.Foreground)
	for i, row := range view {
		rr := layerRowRect(panel, i)
		if rr.Max.Y > panel.Max.Y {
			break
		}
		fill := th.ButtonBackground
		if row.Selected {
			fill = th.ButtonActive
		}
		draw.Draw(dst, rr.Inset(1), &image.Uniform{fill}, image.Point{}, draw.Src)
		name := row.Name
		if !row.Visible {
			name = "(" + name + ")"
		}
		drawLabel(dst, rr.Min.X+4, rr.Min.Y+14, name, th.Foreground)
		for j, b := range layerButtons {
			br := layerButtonRect(rr, j)
			state := StateDefault
			if (b.op == layers.OpToggleVisible && row.Visible) || (b.op == layers.OpToggleLock && row.Locked) {
				state = StatePressed
			}
			draw.Draw(dst, br, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
			surface.DrawRect(dst, br, th.ButtonBorder, 1)
			drawLabel(dst, br.Min.X+5, br.Min.Y+12, b.label, th.Foreground)
		}
	}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// toolbarHits holds the toolbar hit areas. They are placed on the event
// loop and only read while drawing.
type toolbarHits struct {
	tools   []*CacheButton
	palette []image.Rectangle
	widths  []image.Rectangle
}

func placeToolbar(r image.Rectangle, hits *toolbarHits) {
	y := r.Min.Y
	for _, cb := range hits.tools {
		cb.SetRect(image.Rect(r.Min.X, y, r.Max.X, y+24))
		y += 24
	}

	y += 4
	x := r.Min.X + 4
	hits.palette = hits.palette[:0]
	for range PaletteColors() {
		hits.palette = append(hits.palette, image.Rect(x, y, x+16, y+16))
		x += 18
		if x+16 > r.Max.X {
			x = r.Min.X + 4
			y += 18
		}
	}
	if x != r.Min.X+4 {
		y += 18
	}

	y += 4
	hits.widths = hits.widths[:0]
	for _, w := range widths {
		h := w + 4
		if h < 16 {
			h = 16
		}
		hits.widths = append(hits.widths, image.Rect(r.Min.X, y, r.Max.X, y+h))
		y += h
	}
}

// toolbarHit reports which tool, swatch or width option contains p.
func toolbarHit(hits *toolbarHits, p image.Point) (kind string, idx int) {
	for i, cb := range hits.tools {
		if p.In(cb.Rect()) {
			return "tool", i
		}
	}
	for i, r := range hits.palette {
		if p.In(r) {
			return "color", i
		}
	}
	for i, r := range hits.widths {
		if p.In(r) {
			return "width", i
		}
	}
	return "", -1
}

func drawToolbar(dst *image.RGBA, th *theme.Theme, r image.Rectangle, hits *toolbarHits, current tools.Tool, pen surface.Pen, hover int) {
	draw.Draw(dst, r, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, cb := range hits.tools {
		state := StateDefault
		if cb.Button.(*ToolButton).tool == current {
			state = StatePressed
		} else if i == hover {
			state = StateHover
		}
		cb.Draw(dst, th, state)
	}

	colors := PaletteColors()
	for i, rect := range hits.palette {
		if i >= len(colors) {
			break
		}
		draw.Draw(dst, rect, &image.Uniform{colors[i].Color}, image.Point{}, draw.Src)
		if colors[i].Color == pen.Color {
			surface.DrawRect(dst, rect, th.Foreground, 2)
		}
	}

	sel := widthIndex(pen.Width)
	for i, rect := range hits.widths {
		state := StateDefault
		if i == sel {
			state = StatePressed
		}
		draw.Draw(dst, rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
		lineY := (rect.Min.Y + rect.Max.Y) / 2
		drawLabel(dst, rect.Min.X+4, lineY+5, widthLabel(widths[i]), th.Foreground)
		surface.DrawLine(dst, rect.Min.X+24, lineY, rect.Max.X-4-widths[i]/2, lineY, pen.Color, widths[i])
	}
}

// placeShortcuts lays the hints out left to right along the bottom bar.
func placeShortcuts(r image.Rectangle, shortcuts []Shortcut) {
	x := r.Min.X + 4
	y := r.Min.Y + 16
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := labelWidth(sc.label)
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		x = sc.rect.Max.X + 8
	}
}

func drawShortcuts(dst *image.RGBA, th *theme.Theme, r image.Rectangle, shortcuts []Shortcut, hover int) {
	draw.Draw(dst, r, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i := range shortcuts {
		state := StateDefault
		if i == hover {
			state = StateHover
		}
		shortcuts[i].Draw(dst, th, state)
	}
}

type paintState struct {
	width, height int
	theme         *theme.Theme
	layout        layout
	frame         *image.RGBA
	display       image.Rectangle
	view          layers.View
	toolbar       *toolbarHits
	tool          tools.Tool
	pen           surface.Pen
	hoverTool     int
	shortcuts     []Shortcut
	hoverShortcut int
	status        string
	editing       bool
	caret         image.Point
	caretSize     int
	message       string
	messageUntil  time.Time
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.theme

	draw.Draw(dst, st.layout.canvas, &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if !st.display.Empty() {
		drawCheckerboard(dst, st.display, 8, checkerLight, checkerDark)
		xdraw.NearestNeighbor.Scale(dst, st.display, st.frame, st.frame.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, st.layout.title, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	drawLabel(dst, 4, 16, "PhotoEdit", th.Foreground)
	drawLabel(dst, st.layout.toolbar.Max.X+8, 16, st.status, th.Foreground)
	drawToolbar(dst, th, st.layout.toolbar, st.toolbar, st.tool, st.pen, st.hoverTool)
	drawLayers(dst, th, st.layout.layers, st.view)
	drawShortcuts(dst, th, st.layout.bottom, st.shortcuts, st.hoverShortcut)
	if ctx.Err() != nil {
		return
	}

	if st.editing {
		top := st.caret.Y - st.caretSize
		surface.DrawLine(dst, st.caret.X+1, top, st.caret.X+1, st.caret.Y, th.Caret, 1)
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, th, st.width, st.height, st.message)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawMessage(dst *image.RGBA, th *theme.Theme, width, height int, msg string) {
	face, err := fonts.Face(messageSize)
	if err != nil {
		log.Printf("message font: %v", err)
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: face}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	surface.DrawRect(dst, rect, th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
