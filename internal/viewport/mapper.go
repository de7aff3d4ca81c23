// Package viewport converts pointer positions between display space and the
// backing pixel buffer.
package viewport

import (
	"math"

	"github.com/example/photoedit/internal/geom"
)

// containerInset is the padding kept around the canvas when fitting it into
// its container.
const containerInset = 64

// Rect is the on-screen bounding rectangle of the displayed buffer.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Mapper translates viewport coordinates into buffer coordinates. The cached
// display rectangle goes stale whenever the layout changes, so callers must
// Refresh (or Fit) before first use and after every resize or reparent.
type Mapper struct {
	bufW, bufH int
	rect       Rect
	fresh      bool
}

// New returns a stale Mapper for a buffer of the given size.
func New(bufferWidth, bufferHeight int) *Mapper {
	return &Mapper{bufW: bufferWidth, bufH: bufferHeight}
}

// Refresh replaces the cached display rectangle.
func (m *Mapper) Refresh(r Rect) {
	m.rect = r
	m.fresh = !r.Empty()
}

// Invalidate marks the cached rectangle as stale.
func (m *Mapper) Invalidate() { m.fresh = false }

// Fresh reports whether the mapper has a usable display rectangle.
func (m *Mapper) Fresh() bool { return m.fresh }

// Rect returns the cached display rectangle.
func (m *Mapper) Rect() Rect { return m.rect }

// Fit centres the buffer inside a container of the given size, preserving its
// aspect ratio, and refreshes the mapper with the resulting rectangle.
func (m *Mapper) Fit(container Rect) Rect {
	availW := container.Width - containerInset
	availH := container.Height - containerInset
	if availW <= 0 || availH <= 0 || m.bufW <= 0 || m.bufH <= 0 {
		m.Invalidate()
		return Rect{}
	}
	scale := math.Min(availW/float64(m.bufW), availH/float64(m.bufH))
	w := float64(m.bufW) * scale
	h := float64(m.bufH) * scale
	r := Rect{
		Left:   container.Left + (container.Width-w)/2,
		Top:    container.Top + (container.Height-h)/2,
		Width:  w,
		Height: h,
	}
	m.Refresh(r)
	return r
}

// Scale returns the display size of one buffer pixel.
func (m *Mapper) Scale() float64 {
	if m.bufW == 0 {
		return 0
	}
	return m.rect.Width / float64(m.bufW)
}

// ToBuffer maps a viewport position into buffer space. ok is false while the
// mapper is stale.
func (m *Mapper) ToBuffer(clientX, clientY float64) (p geom.Point, ok bool) {
	if !m.fresh {
		return geom.Point{}, false
	}
	sx := float64(m.bufW) / m.rect.Width
	sy := float64(m.bufH) / m.rect.Height
	return geom.Pt((clientX-m.rect.Left)*sx, (clientY-m.rect.Top)*sy), true
}

// ToDisplay maps a buffer position back into viewport space.
func (m *Mapper) ToDisplay(p geom.Point) (x, y float64, ok bool) {
	if !m.fresh {
		return 0, 0, false
	}
	return m.rect.Left + p.X*m.rect.Width/float64(m.bufW),
		m.rect.Top + p.Y*m.rect.Height/float64(m.bufH), true
}
