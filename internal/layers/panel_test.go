package layers

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photoedit/internal/objects"
)

func TestPanelMirrorsModelNewestFirst(t *testing.T) {
	var got []View
	p := NewPanel(func(v View) { got = append(got, v) })
	m := objects.NewModel(objects.WithListener(p))

	a := m.Add(objects.NewImage(image.NewRGBA(image.Rect(0, 0, 4, 4))), 0, 0)
	b := m.Add(&objects.Text{Content: "x", Size: 12}, 0, 20)
	m.Select(a.ID)
	m.SetLocked(b.ID, true)

	v := p.View()
	require.Len(t, v, 2)
	assert.Equal(t, Row{ID: b.ID, Kind: objects.KindText, Name: "text 2", Visible: true, Locked: true}, v[0])
	assert.Equal(t, Row{ID: a.ID, Kind: objects.KindImage, Name: "image 1", Visible: true, Selected: true}, v[1])
	assert.Len(t, got, 4)
}

func TestSubscribeReceivesCurrentView(t *testing.T) {
	p := NewPanel()
	m := objects.NewModel(objects.WithListener(p))
	m.Add(&objects.Text{Content: "x", Size: 12}, 0, 0)

	var got View
	p.Subscribe(func(v View) { got = v })
	assert.Len(t, got, 1)
}

type fakeController struct{ calls []string }

func (f *fakeController) ToggleVisible(objects.ID) { f.calls = append(f.calls, "visible") }
func (f *fakeController) ToggleLock(objects.ID)    { f.calls = append(f.calls, "lock") }
func (f *fakeController) DeleteObject(objects.ID)  { f.calls = append(f.calls, "delete") }
func (f *fakeController) SelectObject(objects.ID)  { f.calls = append(f.calls, "select") }
func (f *fakeController) BringForward(objects.ID)  { f.calls = append(f.calls, "forward") }
func (f *fakeController) SendBackward(objects.ID)  { f.calls = append(f.calls, "backward") }

func TestApply(t *testing.T) {
	c := &fakeController{}
	for _, op := range []Op{OpToggleVisible, OpToggleLock, OpDelete, OpSelect, OpForward, OpBackward} {
		require.NoError(t, Apply(c, Command{Op: op}))
	}
	assert.Equal(t, []string{"visible", "lock", "delete", "select", "forward", "backward"}, c.calls)
	assert.ErrorIs(t, Apply(c, Command{Op: "rename"}), ErrUnknownOp)
}
