// Package layers mirrors the object model into the rows of a layer list and
// routes the list's commands back.
package layers

import (
	"fmt"
	"sync"

	"github.com/example/photoedit/internal/objects"
)

// Row is one entry of the layer list.
type Row struct {
	ID       objects.ID   `json:"id"`
	Kind     objects.Kind `json:"kind"`
	Name     string       `json:"name"`
	Visible  bool         `json:"visible"`
	Locked   bool         `json:"locked"`
	Selected bool         `json:"selected"`
}

// View is the layer list, topmost object first.
type View []Row

// Sink receives every new View.
type Sink func(View)

// Panel implements objects.Listener and fans views out to its sinks.
type Panel struct {
	mu    sync.Mutex
	view  View
	sinks []Sink
}

// NewPanel creates a Panel with the given sinks.
func NewPanel(sinks ...Sink) *Panel {
	return &Panel{sinks: sinks}
}

// Subscribe adds a sink and immediately sends it the current view.
func (p *Panel) Subscribe(s Sink) {
	p.mu.Lock()
	p.sinks = append(p.sinks, s)
	v := p.view
	p.mu.Unlock()
	s(v)
}

// ObjectsChanged rebuilds the view from objs.
func (p *Panel) ObjectsChanged(objs []*objects.Object, selected *objects.Object) {
	v := Build(objs, selected)
	p.mu.Lock()
	p.view = v
	sinks := append([]Sink(nil), p.sinks...)
	p.mu.Unlock()
	for _, s := range sinks {
		s(v)
	}
}

// View returns the last view built.
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Build produces rows for objs, newest first.
func Build(objs []*objects.Object, selected *objects.Object) View {
	v := make(View, 0, len(objs))
	for i := len(objs) - 1; i >= 0; i-- {
		o := objs[i]
		v = append(v, Row{
			ID:       o.ID,
			Kind:     o.Kind(),
			Name:     fmt.Sprintf("%s %d", o.Kind(), o.Seq),
			Visible:  o.Visible,
			Locked:   o.Locked,
			Selected: selected != nil && selected.ID == o.ID,
		})
	}
	return v
}
