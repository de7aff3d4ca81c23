package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/theme"
	"github.com/example/photoedit/internal/tools"
)

// PaletteColor is a named swatch.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Olive", color.RGBA{128, 128, 0, 255}},
		{"Teal", color.RGBA{0, 128, 128, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Silver", color.RGBA{192, 192, 192, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
)

var widths = []int{1, 2, 5, 8, 12, 16, 24, 32}

// PaletteColors returns a copy of the swatches shown in the toolbar.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// EnsurePaletteColor makes sure col is present in the palette and returns its index.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for idx, existing := range palette {
		if existing.Color == col {
			return idx
		}
	}
	if name == "" {
		name = theme.Hex(col)
	}
	palette = append(palette, PaletteColor{Name: name, Color: col})
	return len(palette) - 1
}

// WidthOptions returns the stroke widths offered in the toolbar.
func WidthOptions() []int {
	out := make([]int, len(widths))
	copy(out, widths)
	return out
}

// widthIndex returns the option closest to w.
func widthIndex(w int) int {
	best := 0
	for i, o := range widths {
		if abs(o-w) < abs(widths[best]-w) {
			best = i
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// stepWidth moves the pen one option thinner or thicker.
func stepWidth(p surface.Pen, delta int) int {
	i := widthIndex(p.Width) + delta
	if i < 0 {
		i = 0
	}
	if i >= len(widths) {
		i = len(widths) - 1
	}
	return widths[i]
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
type Button interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states until the
// rectangle or theme changes.
type CacheButton struct {
	Button
	theme *theme.Theme
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	if cb.theme != th {
		cb.theme = th
		cb.cache = [3]*image.RGBA{}
	}
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, th, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func buttonFill(th *theme.Theme, state ButtonState) color.Color {
	switch state {
	case StatePressed:
		return th.ButtonActive
	case StateHover:
		return blend(th.ButtonBackground, th.ButtonActive)
	}
	return th.ButtonBackground
}

func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{uint8((int(a.R) + int(b.R)) / 2), uint8((int(a.G) + int(b.G)) / 2), uint8((int(a.B) + int(b.B)) / 2), 255}
}

func drawLabel(dst *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(label)
}

func labelWidth(label string) int {
	return (&font.Drawer{Face: basicfont.Face7x13}).MeasureString(label).Ceil()
}

// Shortcut is a clickable hint in the bottom bar.
type Shortcut struct {
	label  string
	action func()
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
	surface.DrawRect(dst, s.rect, th.ButtonBorder, 1)
	drawLabel(dst, s.rect.Min.X+2, s.rect.Min.Y+14, s.label, th.Foreground)
}

func (s *Shortcut) Rect() image.Rectangle     { return s.rect }
func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// ToolButton selects a drawing tool.
type ToolButton struct {
	label    string
	tool     tools.Tool
	rect     image.Rectangle
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	draw.Draw(dst, tb.rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
	drawLabel(dst, tb.rect.Min.X+4, tb.rect.Min.Y+16, tb.label, th.Foreground)
}

func (tb *ToolButton) Rect() image.Rectangle     { return tb.rect }
func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

// toolLabels pairs each tool with its toolbar label; the leading letter is
// the keyboard shortcut.
var toolLabels = []struct {
	label string
	key   rune
	tool  tools.Tool
}{
	{"B:Brush", 'b', tools.Brush},
	{"X:Rect", 'x', tools.Rectangle},
	{"O:Circle", 'o', tools.Circle},
	{"L:Line", 'l', tools.Line},
	{"T:Text", 't', tools.Text},
	{"V:Select", 'v', tools.Select},
}

// toolbarWidthFor returns a width wide enough for the title and every label.
func toolbarWidthFor(title string, labels ...string) int {
	w := labelWidth(title) + 8
	for _, l := range labels {
		if lw := labelWidth(l) + 8; lw > w {
			w = lw
		}
	}
	if w < minToolbarWidth {
		w = minToolbarWidth
	}
	return w
}

func widthLabel(w int) string { return fmt.Sprintf("%d", w) }
