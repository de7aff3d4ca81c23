// Package objects holds the ordered vector objects layered above the raster
// buffer. The slice order is the render order: index 0 is drawn first.
package objects

import (
	"image"
	"math"

	"github.com/google/uuid"

	"github.com/example/photoedit/internal/geom"
)

// ID identifies an object for the lifetime of a session.
type ID = uuid.UUID

// Object is a positioned variant with its visibility and lock flags.
type Object struct {
	ID      ID
	Seq     int
	X, Y    float64
	Visible bool
	Locked  bool
	Variant Variant
}

// Kind reports the variant kind of o.
func (o *Object) Kind() Kind { return o.Variant.kind() }

// Origin returns the object position.
func (o *Object) Origin() geom.Point { return geom.Pt(o.X, o.Y) }

// HitTest reports whether p lies inside the object's hit box. Edges are
// inclusive.
func HitTest(p geom.Point, o *Object) bool {
	if o == nil || o.Variant == nil {
		return false
	}
	minX, minY, maxX, maxY := o.Variant.extent()
	return p.X >= o.X+minX && p.X <= o.X+maxX &&
		p.Y >= o.Y+minY && p.Y <= o.Y+maxY
}

// Bounds returns the selection outline rectangle of o in buffer space.
func Bounds(o *Object) image.Rectangle {
	minX, minY, maxX, maxY := o.Variant.outline()
	return image.Rect(
		int(math.Floor(o.X+minX)), int(math.Floor(o.Y+minY)),
		int(math.Ceil(o.X+maxX)), int(math.Ceil(o.Y+maxY)),
	)
}

// Paint draws o onto dst at its position regardless of visibility.
func Paint(dst *image.RGBA, o *Object) error {
	return o.Variant.paint(dst, o.X, o.Y)
}

// Listener is notified with the ordered objects and the current selection
// after every mutation.
type Listener interface {
	ObjectsChanged(objs []*Object, selected *Object)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(objs []*Object, selected *Object)

func (f ListenerFunc) ObjectsChanged(objs []*Object, selected *Object) { f(objs, selected) }

// Model is the ordered object sequence plus the weak selection reference.
// It is not safe for concurrent use.
type Model struct {
	objs     []*Object
	selected ID
	hasSel   bool
	seq      int
	listener Listener
	newID    func() ID
}

// Option configures a Model.
type Option func(*Model)

// WithListener registers the collaborator told about every change.
func WithListener(l Listener) Option { return func(m *Model) { m.listener = l } }

// WithIDSource replaces uuid.New, mainly for tests.
func WithIDSource(fn func() ID) Option { return func(m *Model) { m.newID = fn } }

// NewModel creates an empty model.
func NewModel(opts ...Option) *Model {
	m := &Model{newID: uuid.New}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Model) notify() {
	if m.listener != nil {
		m.listener.ObjectsChanged(m.Objects(), m.Selected())
	}
}

func (m *Model) index(id ID) int {
	for i, o := range m.objs {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a visible, unlocked object at (x, y) above all others.
func (m *Model) Add(v Variant, x, y float64) *Object {
	m.seq++
	o := &Object{ID: m.newID(), Seq: m.seq, X: x, Y: y, Visible: true, Variant: v}
	m.objs = append(m.objs, o)
	m.notify()
	return o
}

// Get returns the object with id, or nil.
func (m *Model) Get(id ID) *Object {
	if i := m.index(id); i >= 0 {
		return m.objs[i]
	}
	return nil
}

// Objects returns a copy of the sequence, back to front.
func (m *Model) Objects() []*Object {
	out := make([]*Object, len(m.objs))
	copy(out, m.objs)
	return out
}

// Len returns the number of objects.
func (m *Model) Len() int { return len(m.objs) }

// Select makes id the selected object. It reports false for unknown ids.
func (m *Model) Select(id ID) bool {
	if m.index(id) < 0 {
		return false
	}
	m.selected, m.hasSel = id, true
	m.notify()
	return true
}

// Deselect clears the selection.
func (m *Model) Deselect() {
	if !m.hasSel {
		return
	}
	m.hasSel = false
	m.selected = ID{}
	m.notify()
}

// Selected returns the selected object or nil. The reference is resolved on
// every call so a deleted object is never returned.
func (m *Model) Selected() *Object {
	if !m.hasSel {
		return nil
	}
	return m.Get(m.selected)
}

// Delete removes id, clearing the selection if it pointed there. Unknown ids
// are ignored.
func (m *Model) Delete(id ID) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	copy(m.objs[i:], m.objs[i+1:])
	m.objs[len(m.objs)-1] = nil
	m.objs = m.objs[:len(m.objs)-1]
	if m.hasSel && m.selected == id {
		m.hasSel = false
		m.selected = ID{}
	}
	m.notify()
	return true
}

// SetVisible sets the visibility flag of id.
func (m *Model) SetVisible(id ID, v bool) bool {
	o := m.Get(id)
	if o == nil {
		return false
	}
	o.Visible = v
	m.notify()
	return true
}

// SetLocked sets the lock flag of id. Locked objects cannot be dragged.
func (m *Model) SetLocked(id ID, v bool) bool {
	o := m.Get(id)
	if o == nil {
		return false
	}
	o.Locked = v
	m.notify()
	return true
}

// Move repositions id. Moves do not notify the listener since the layer
// view carries no geometry.
func (m *Model) Move(id ID, x, y float64) bool {
	o := m.Get(id)
	if o == nil {
		return false
	}
	o.X, o.Y = x, y
	return true
}

// BringForward swaps id with the object drawn above it.
func (m *Model) BringForward(id ID) bool {
	i := m.index(id)
	if i < 0 || i == len(m.objs)-1 {
		return false
	}
	m.objs[i], m.objs[i+1] = m.objs[i+1], m.objs[i]
	m.notify()
	return true
}

// SendBackward swaps id with the object drawn below it.
func (m *Model) SendBackward(id ID) bool {
	i := m.index(id)
	if i <= 0 {
		return false
	}
	m.objs[i], m.objs[i-1] = m.objs[i-1], m.objs[i]
	m.notify()
	return true
}

// TopmostAt returns the highest visible object whose hit box contains p.
func (m *Model) TopmostAt(p geom.Point) *Object {
	for i := len(m.objs) - 1; i >= 0; i-- {
		o := m.objs[i]
		if o.Visible && HitTest(p, o) {
			return o
		}
	}
	return nil
}

// Clear removes every object.
func (m *Model) Clear() {
	if len(m.objs) == 0 && !m.hasSel {
		return
	}
	m.objs = nil
	m.hasSel = false
	m.selected = ID{}
	m.notify()
}
