package objects

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photoedit/internal/fonts"
	"github.com/example/photoedit/internal/geom"
)

type recorder struct {
	calls    int
	last     []*Object
	selected *Object
}

func (r *recorder) ObjectsChanged(objs []*Object, selected *Object) {
	r.calls++
	r.last = objs
	r.selected = selected
}

func square(n int) *Image {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	return NewImage(img)
}

func TestAddAppendsOnTop(t *testing.T) {
	rec := &recorder{}
	m := NewModel(WithListener(rec))
	a := m.Add(square(10), 0, 0)
	b := m.Add(&Text{Content: "hi", Size: 16}, 5, 20)

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []*Object{a, b}, m.Objects())
	assert.Equal(t, 2, rec.calls)
	assert.Equal(t, 1, a.Seq)
	assert.Equal(t, 2, b.Seq)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Visible)
	assert.False(t, a.Locked)
	assert.Equal(t, KindImage, a.Kind())
	assert.Equal(t, KindText, b.Kind())
}

func TestImageHitTestEdges(t *testing.T) {
	o := &Object{X: 20, Y: 30, Variant: square(100)}
	cases := []struct {
		p    geom.Point
		want bool
	}{
		{geom.Pt(20, 30), true},
		{geom.Pt(120, 130), true},
		{geom.Pt(70, 80), true},
		{geom.Pt(19, 30), false},
		{geom.Pt(20, 29), false},
		{geom.Pt(121, 50), false},
		{geom.Pt(50, 131), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HitTest(c.p, o), "%v", c.p)
	}
}

func TestTextHitTestUsesBaselineBox(t *testing.T) {
	txt := &Text{Content: "Hello", Size: 20}
	o := &Object{X: 10, Y: 50, Variant: txt}
	w, err := fonts.Measure("Hello", 20)
	require.NoError(t, err)

	assert.True(t, HitTest(geom.Pt(10, 50), o))
	assert.True(t, HitTest(geom.Pt(10, 30), o))
	assert.True(t, HitTest(geom.Pt(10+float64(w), 40), o))
	assert.False(t, HitTest(geom.Pt(9, 40), o))
	assert.False(t, HitTest(geom.Pt(12, 51), o))
	assert.False(t, HitTest(geom.Pt(12, 29), o))
	assert.False(t, HitTest(geom.Pt(11+float64(w), 40), o))
}

func TestBounds(t *testing.T) {
	img := &Object{X: 5, Y: 6, Variant: square(10)}
	assert.Equal(t, image.Rect(5, 6, 15, 16), Bounds(img))

	txt := &Object{X: 10, Y: 50, Variant: &Text{Content: "", Size: 20}}
	assert.Equal(t, image.Rect(10, 30, 10, 54), Bounds(txt))
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	rec := &recorder{}
	m := NewModel(WithListener(rec))
	a := m.Add(square(10), 0, 0)
	require.True(t, m.Select(a.ID))
	require.Same(t, a, m.Selected())

	assert.True(t, m.Delete(a.ID))
	assert.Nil(t, m.Selected())
	assert.Nil(t, rec.selected)
	assert.Zero(t, m.Len())

	calls := rec.calls
	assert.False(t, m.Delete(a.ID), "already deleted")
	assert.False(t, m.Delete(ID{}), "never existed")
	assert.Equal(t, calls, rec.calls)
}

func TestDeleteOtherKeepsSelection(t *testing.T) {
	m := NewModel()
	a := m.Add(square(10), 0, 0)
	b := m.Add(square(10), 0, 0)
	m.Select(a.ID)
	m.Delete(b.ID)
	assert.Same(t, a, m.Selected())
}

func TestUnknownIDsAreNoops(t *testing.T) {
	m := NewModel()
	id := ID{1}
	assert.False(t, m.Select(id))
	assert.False(t, m.SetVisible(id, false))
	assert.False(t, m.SetLocked(id, true))
	assert.False(t, m.Move(id, 1, 1))
	assert.False(t, m.BringForward(id))
	assert.False(t, m.SendBackward(id))
	assert.Nil(t, m.Get(id))
}

func TestZOrder(t *testing.T) {
	m := NewModel()
	a := m.Add(square(10), 0, 0)
	b := m.Add(square(10), 0, 0)
	c := m.Add(square(10), 0, 0)

	assert.True(t, m.BringForward(a.ID))
	assert.Equal(t, []*Object{b, a, c}, m.Objects())
	assert.False(t, m.BringForward(c.ID))
	assert.True(t, m.SendBackward(c.ID))
	assert.Equal(t, []*Object{b, c, a}, m.Objects())
	assert.False(t, m.SendBackward(b.ID))
}

func TestTopmostAtSkipsHidden(t *testing.T) {
	m := NewModel()
	a := m.Add(square(10), 0, 0)
	b := m.Add(square(10), 0, 0)
	assert.Same(t, b, m.TopmostAt(geom.Pt(5, 5)))
	m.SetVisible(b.ID, false)
	assert.Same(t, a, m.TopmostAt(geom.Pt(5, 5)))
	assert.Nil(t, m.TopmostAt(geom.Pt(50, 50)))
}

func TestPaintImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	src.Pix[0], src.Pix[1] = 0, 0
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	o := &Object{X: 8, Y: 8, Variant: NewImage(src)}
	require.NoError(t, Paint(dst, o))
	assert.Equal(t, color.RGBA{0, 0, 0xff, 0xff}, dst.RGBAAt(8, 8))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, dst.RGBAAt(11, 11))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(12, 12))
}
