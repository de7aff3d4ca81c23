package tools

import (
	"image/color"
	"unicode/utf8"

	"github.com/example/photoedit/internal/geom"
	"github.com/example/photoedit/internal/objects"
	"github.com/example/photoedit/internal/surface"
)

// windowSize is how many recent samples feed the freehand smoother.
const windowSize = 8

// Canvas is the raster side the machine draws on.
type Canvas interface {
	// Stroke draws a smoothed freehand segment through points.
	Stroke(points []geom.Point, pen surface.Pen)
	// Preview restores the last committed snapshot and outlines a shape.
	Preview(kind surface.Shape, anchor, current geom.Point, pen surface.Pen)
	// Text rasterises content with its baseline at p.
	Text(content string, p geom.Point, size float64, col color.RGBA) error
	// Commit snapshots the buffer into history.
	Commit()
	// Schedule queues fn for the next frame, replacing anything not yet run.
	Schedule(fn func())
	// Flush runs whatever Schedule left pending.
	Flush()
	// Redraw asks for a recomposite without touching the buffer.
	Redraw()
}

// Machine is the tool state: the selected tool, the pen and the transient
// gesture data. It is driven from a single goroutine.
type Machine struct {
	canvas  Canvas
	objects *objects.Model

	tool  Tool
	pen   surface.Pen
	state State

	anchor  geom.Point
	last    geom.Point
	window  []geom.Point
	undrawn int

	dragID objects.ID
	grab   geom.Point

	editing *objects.Object
}

// New creates a Machine in Idle with the brush selected.
func New(c Canvas, m *objects.Model, pen surface.Pen) *Machine {
	return &Machine{canvas: c, objects: m, pen: pen, window: make([]geom.Point, 0, windowSize)}
}

// Tool returns the active tool.
func (m *Machine) Tool() Tool { return m.tool }

// State returns the gesture state.
func (m *Machine) State() State { return m.state }

// Pen returns the current pen.
func (m *Machine) Pen() surface.Pen { return m.pen }

// SetColor changes the pen colour for the next gesture.
func (m *Machine) SetColor(c color.RGBA) { m.pen.Color = c }

// SetWidth changes the pen width for the next gesture.
func (m *Machine) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	m.pen.Width = w
}

// SetTool switches tools. An active gesture is finished first as if the
// pointer had been released at its last position. Leaving the text tool
// commits the open edit; its error is returned after the switch.
func (m *Machine) SetTool(t Tool) error {
	m.finish()
	var err error
	if t != Text {
		err = m.CommitText()
	}
	m.tool = t
	return err
}

// Cancel finishes any gesture and commits an open text edit. It is called on
// teardown.
func (m *Machine) Cancel() error {
	m.finish()
	return m.CommitText()
}

// Down starts a gesture at p.
func (m *Machine) Down(p geom.Point) {
	if m.state != Idle {
		m.finish()
	}
	if sel := m.objects.Selected(); sel != nil && !sel.Locked && sel.Visible && objects.HitTest(p, sel) {
		m.startDrag(sel, p)
		return
	}
	switch m.tool {
	case Text:
		m.placeText(p)
		return
	case Select:
		if o := m.objects.TopmostAt(p); o != nil {
			m.objects.Select(o.ID)
			m.canvas.Redraw()
			if !o.Locked {
				m.startDrag(o, p)
			}
			return
		}
		if m.objects.Selected() != nil {
			m.objects.Deselect()
			m.canvas.Redraw()
		}
		return
	}
	m.state = Drawing
	m.anchor, m.last = p, p
	m.window = append(m.window[:0], p)
	m.undrawn = 0
}

func (m *Machine) startDrag(o *objects.Object, p geom.Point) {
	m.state = Dragging
	m.dragID = o.ID
	m.grab = p.Sub(o.Origin())
}

// Move continues the gesture.
func (m *Machine) Move(p geom.Point) {
	switch m.state {
	case Dragging:
		at := p.Sub(m.grab)
		if m.objects.Move(m.dragID, at.X, at.Y) {
			m.canvas.Redraw()
		}
	case Drawing:
		m.last = p
		if kind, ok := m.tool.shape(); ok {
			anchor, pen := m.anchor, m.pen
			m.canvas.Schedule(func() { m.canvas.Preview(kind, anchor, p, pen) })
			return
		}
		// Consecutive drawn windows must overlap; flush before an undrawn
		// sample slides out.
		if m.undrawn == windowSize-1 {
			m.canvas.Flush()
		}
		if len(m.window) == windowSize {
			copy(m.window, m.window[1:])
			m.window = m.window[:windowSize-1]
		}
		m.window = append(m.window, p)
		m.undrawn++
		pts := append([]geom.Point(nil), m.window...)
		pen := m.pen
		m.canvas.Schedule(func() {
			m.undrawn = 0
			m.canvas.Stroke(pts, pen)
		})
	}
}

// Up ends the gesture at p.
func (m *Machine) Up(p geom.Point) {
	if m.state == Idle {
		return
	}
	if m.state == Drawing && p != m.last {
		m.Move(p)
	}
	m.finish()
}

// Leave ends the gesture where the pointer was last seen.
func (m *Machine) Leave() { m.finish() }

func (m *Machine) finish() {
	switch m.state {
	case Dragging:
		m.state = Idle
		m.dragID = objects.ID{}
	case Drawing:
		m.canvas.Flush()
		m.state = Idle
		m.window = m.window[:0]
		m.undrawn = 0
		m.canvas.Commit()
	}
}

// Editing returns the placeholder object of an open text edit.
func (m *Machine) Editing() (*objects.Object, bool) {
	return m.editing, m.editing != nil
}

func (m *Machine) placeText(p geom.Point) {
	m.CommitText()
	o := m.objects.Add(&objects.Text{Size: float64(m.pen.Width), Color: m.pen.Color}, p.X, p.Y)
	m.objects.Select(o.ID)
	m.editing = o
	m.canvas.Redraw()
}

func (m *Machine) editText() *objects.Text {
	if m.editing == nil {
		return nil
	}
	t, _ := m.editing.Variant.(*objects.Text)
	return t
}

// TypeRune appends r to the open text edit.
func (m *Machine) TypeRune(r rune) {
	if t := m.editText(); t != nil {
		t.Content += string(r)
		m.canvas.Redraw()
	}
}

// Backspace removes the last rune of the open text edit.
func (m *Machine) Backspace() {
	t := m.editText()
	if t == nil || t.Content == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(t.Content)
	t.Content = t.Content[:len(t.Content)-n]
	m.canvas.Redraw()
}

// CommitText paints the open edit into the buffer and commits it. The
// placeholder object is removed either way; an empty edit commits nothing.
func (m *Machine) CommitText() error {
	o := m.editing
	t := m.editText()
	if t == nil {
		return nil
	}
	m.editing = nil
	m.objects.Delete(o.ID)
	defer m.canvas.Redraw()
	if t.Content == "" {
		return nil
	}
	if err := m.canvas.Text(t.Content, o.Origin(), t.Size, t.Color); err != nil {
		return err
	}
	m.canvas.Commit()
	return nil
}

// CancelText discards the open edit.
func (m *Machine) CancelText() {
	if m.editing == nil {
		return
	}
	m.objects.Delete(m.editing.ID)
	m.editing = nil
	m.canvas.Redraw()
}

// Forget drops references to id; the editor calls it when an object is
// deleted from outside the machine.
func (m *Machine) Forget(id objects.ID) {
	if m.state == Dragging && m.dragID == id {
		m.state = Idle
		m.dragID = objects.ID{}
	}
	if m.editing != nil && m.editing.ID == id {
		m.editing = nil
	}
}
