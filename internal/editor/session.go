// Package editor owns one editing session: the raster buffer, its history,
// the object layer and the tool state. A Session is not safe for concurrent
// use; either call it from one goroutine or run it with Run and Post events.
package editor

import (
	"context"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/example/photoedit/internal/geom"
	"github.com/example/photoedit/internal/history"
	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/layers"
	"github.com/example/photoedit/internal/objects"
	"github.com/example/photoedit/internal/render"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/tools"
	"github.com/example/photoedit/internal/viewport"
)

// DefaultPen is black ink five pixels wide.
var DefaultPen = surface.Pen{Color: color.RGBA{0, 0, 0, 255}, Width: 5}

// Session is a single editing session.
type Session struct {
	cfg config
	log *log.Logger

	surf   *surface.Surface
	hist   *history.Manager
	objs   *objects.Model
	panel  *layers.Panel
	tools  *tools.Machine
	mapper *viewport.Mapper
	frame  *image.RGBA
	sched  *render.Scheduler
	imp    *importer.Importer

	ink func()

	ctx       context.Context
	cancel    context.CancelFunc
	events    chan Event
	closeOnce sync.Once
}

// New validates size and creates a session whose buffer is filled with the
// theme's canvas colour. The fill is the first history entry.
func New(size surface.Size, opts ...Option) (*Session, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}
	s := &Session{cfg: cfg, log: cfg.logger}
	if s.log == nil {
		s.log = log.Default()
	}
	surf, err := surface.New(size, cfg.theme.Canvas)
	if err != nil {
		s.report(err)
		return nil, err
	}
	s.surf = surf
	s.hist = history.New(history.WithMaxDepth(cfg.historyDepth))
	s.panel = layers.NewPanel(cfg.panelSinks...)
	s.objs = objects.NewModel(objects.WithListener(s.panel))
	s.tools = tools.New(canvas{s}, s.objs, cfg.pen)
	s.mapper = viewport.New(size.Width, size.Height)
	s.frame = image.NewRGBA(surf.Bounds())
	s.sched = render.NewScheduler()
	s.imp = importer.New(4)
	s.events = make(chan Event, 64)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.commit()
	s.composite(s.ctx)
	return s, nil
}

func (s *Session) report(err error) {
	if s.cfg.reporter != nil {
		s.cfg.reporter.Report(messageFor(err))
	}
}

func (s *Session) commit() { s.hist.Commit(s.surf.Image().Pix) }

// commitObjects records an object change. A shape or stroke in progress is
// finished first so its preview never becomes a history entry.
func (s *Session) commitObjects() {
	s.tools.Leave()
	s.commit()
}

func (s *Session) textFailed(err error) {
	if err != nil {
		s.log.Printf("commit text: %v", err)
		s.report(err)
	}
}

// bound clamps p to the buffer grown by its longer side on every edge.
func (s *Session) bound(p geom.Point) geom.Point {
	sz := s.surf.Size()
	m := float64(max(sz.Width, sz.Height))
	return geom.Pt(clamp(p.X, -m, float64(sz.Width)+m), clamp(p.Y, -m, float64(sz.Height)+m))
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func (s *Session) redraw() {
	s.sched.Schedule(func(ctx context.Context) { s.paint(ctx) })
}

func (s *Session) paint(ctx context.Context) {
	if ink := s.ink; ink != nil {
		s.ink = nil
		ink()
	}
	s.composite(ctx)
}

func (s *Session) composite(ctx context.Context) {
	if err := render.Composite(s.frame, s.surf.Image(), s.objs.Objects(), s.objs.Selected(), s.cfg.theme); err != nil {
		s.log.Printf("composite: %v", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	for _, fn := range s.cfg.frameSinks {
		fn(s.frame)
	}
}

// Size returns the buffer dimensions.
func (s *Session) Size() surface.Size { return s.surf.Size() }

// Mapper returns the display-to-buffer mapper the host keeps fresh.
func (s *Session) Mapper() *viewport.Mapper { return s.mapper }

// Layout records where the buffer is shown on screen.
func (s *Session) Layout(r viewport.Rect) { s.mapper.Refresh(r) }

// Fit centres the buffer in a container and records the result.
func (s *Session) Fit(container viewport.Rect) viewport.Rect { return s.mapper.Fit(container) }

func (s *Session) toBuffer(x, y float64) (geom.Point, bool) {
	p, ok := s.mapper.ToBuffer(x, y)
	if !ok {
		s.log.Printf("pointer: display rect is stale, ignoring (%.0f,%.0f)", x, y)
	}
	return s.bound(p), ok
}

// PointerDown starts a gesture at a display position.
func (s *Session) PointerDown(x, y float64) {
	if p, ok := s.toBuffer(x, y); ok {
		s.tools.Down(p)
	}
}

// PointerMove continues a gesture.
func (s *Session) PointerMove(x, y float64) {
	if p, ok := s.toBuffer(x, y); ok {
		s.tools.Move(p)
	}
}

// PointerUp ends a gesture.
func (s *Session) PointerUp(x, y float64) {
	if p, ok := s.toBuffer(x, y); ok {
		s.tools.Up(p)
		return
	}
	s.tools.Leave()
}

// PointerLeave ends a gesture at the last known position.
func (s *Session) PointerLeave() { s.tools.Leave() }

// DownAt, MoveAt and UpAt take buffer coordinates directly. Points far
// outside the buffer are clamped.
func (s *Session) DownAt(p geom.Point) { s.tools.Down(s.bound(p)) }

// MoveAt continues a gesture in buffer coordinates.
func (s *Session) MoveAt(p geom.Point) { s.tools.Move(s.bound(p)) }

// UpAt ends a gesture in buffer coordinates.
func (s *Session) UpAt(p geom.Point) { s.tools.Up(s.bound(p)) }

// Tool returns the active tool.
func (s *Session) Tool() tools.Tool { return s.tools.Tool() }

// State returns the gesture state.
func (s *Session) State() tools.State { return s.tools.State() }

// Pen returns the current pen.
func (s *Session) Pen() surface.Pen { return s.tools.Pen() }

// SetTool switches tools, finishing any gesture in progress.
func (s *Session) SetTool(t tools.Tool) { s.textFailed(s.tools.SetTool(t)) }

// SetColor sets the pen colour.
func (s *Session) SetColor(c color.RGBA) { s.tools.SetColor(c) }

// SetWidth sets the pen width, which is also the text size.
func (s *Session) SetWidth(w int) { s.tools.SetWidth(w) }

// Undo restores the previous snapshot. It does nothing on the floor entry.
func (s *Session) Undo() bool {
	s.tools.Leave()
	pix, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(pix)
	return true
}

// Redo reapplies the last undone snapshot.
func (s *Session) Redo() bool {
	s.tools.Leave()
	pix, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(pix)
	return true
}

func (s *Session) restore(pix []byte) {
	if err := s.surf.Restore(pix); err != nil {
		s.log.Printf("restore: %v", err)
		return
	}
	s.redraw()
}

// HistoryDepth returns the undo and redo stack sizes.
func (s *Session) HistoryDepth() (undo, redo int) { return s.hist.Depth(), s.hist.RedoDepth() }

// TypeRune appends to the open text edit.
func (s *Session) TypeRune(r rune) { s.tools.TypeRune(r) }

// Backspace deletes from the open text edit.
func (s *Session) Backspace() { s.tools.Backspace() }

// CommitText paints the open text edit into the buffer.
func (s *Session) CommitText() { s.textFailed(s.tools.CommitText()) }

// CancelText discards the open text edit.
func (s *Session) CancelText() { s.tools.CancelText() }

// Editing reports whether a text edit is open and where its baseline is.
func (s *Session) Editing() (geom.Point, string, bool) {
	o, ok := s.tools.Editing()
	if !ok {
		return geom.Point{}, "", false
	}
	t, _ := o.Variant.(*objects.Text)
	if t == nil {
		return o.Origin(), "", true
	}
	return o.Origin(), t.Content, true
}

// Objects returns the object sequence back to front.
func (s *Session) Objects() []*objects.Object { return s.objs.Objects() }

// Selected returns the selected object or nil.
func (s *Session) Selected() *objects.Object { return s.objs.Selected() }

// Layers returns the current layer view.
func (s *Session) Layers() layers.View { return s.panel.View() }

// SubscribeLayers adds a layer view sink after construction.
func (s *Session) SubscribeLayers(sink layers.Sink) { s.panel.Subscribe(sink) }

// AddImage places img at (x, y) above every other object and selects
// nothing.
func (s *Session) AddImage(img image.Image, x, y float64) *objects.Object {
	o := s.objs.Add(objects.NewImage(img), x, y)
	s.commitObjects()
	s.redraw()
	return o
}

// AddText places a text object using the pen colour and width.
func (s *Session) AddText(content string, x, y float64) *objects.Object {
	pen := s.tools.Pen()
	o := s.objs.Add(&objects.Text{Content: content, Size: float64(pen.Width), Color: pen.Color}, x, y)
	s.commitObjects()
	s.redraw()
	return o
}

// Apply runs a layer panel command.
func (s *Session) Apply(cmd layers.Command) error { return layers.Apply(s, cmd) }

// ToggleVisible flips the visibility of id.
func (s *Session) ToggleVisible(id objects.ID) {
	if o := s.objs.Get(id); o != nil {
		s.objs.SetVisible(id, !o.Visible)
		s.redraw()
	}
}

// ToggleLock flips the lock of id. A drag in progress on id ends.
func (s *Session) ToggleLock(id objects.ID) {
	if o := s.objs.Get(id); o != nil {
		if !o.Locked {
			s.tools.Forget(id)
		}
		s.objs.SetLocked(id, !o.Locked)
	}
}

// DeleteObject removes id. Unknown ids are ignored.
func (s *Session) DeleteObject(id objects.ID) {
	s.tools.Forget(id)
	if s.objs.Delete(id) {
		s.commitObjects()
		s.redraw()
	}
}

// DeleteSelected removes the selected object, if any.
func (s *Session) DeleteSelected() {
	if o := s.objs.Selected(); o != nil {
		s.DeleteObject(o.ID)
	}
}

// SelectObject selects id. Unknown ids are ignored.
func (s *Session) SelectObject(id objects.ID) {
	if s.objs.Select(id) {
		s.redraw()
	}
}

// Deselect clears the selection.
func (s *Session) Deselect() {
	s.objs.Deselect()
	s.redraw()
}

// BringForward raises id one step.
func (s *Session) BringForward(id objects.ID) {
	if s.objs.BringForward(id) {
		s.redraw()
	}
}

// SendBackward lowers id one step.
func (s *Session) SendBackward(id objects.ID) {
	if s.objs.SendBackward(id) {
		s.redraw()
	}
}

// Frame runs any pending repaint and returns the composited frame. The
// image is reused by later repaints.
func (s *Session) Frame() *image.RGBA {
	s.sched.Tick(s.ctx)
	return s.frame
}

// Pixels returns a copy of the raster buffer.
func (s *Session) Pixels() []byte { return s.surf.Pixels() }

// Raster returns a copy of the raster buffer as an image.
func (s *Session) Raster() *image.RGBA { return s.surf.Snapshot() }

// Flatten returns a copy of the current composited frame.
func (s *Session) Flatten() *image.RGBA {
	f := s.Frame()
	out := image.NewRGBA(f.Bounds())
	copy(out.Pix, f.Pix)
	return out
}

// Replace discards the buffer, objects and history and starts over at size.
func (s *Session) Replace(size surface.Size) error {
	surf, err := surface.New(size, s.cfg.theme.Canvas)
	if err != nil {
		s.report(err)
		return err
	}
	s.textFailed(s.tools.Cancel())
	s.sched.Cancel()
	s.ink = nil
	s.surf = surf
	s.hist.Reset()
	s.objs.Clear()
	s.mapper = viewport.New(size.Width, size.Height)
	s.frame = image.NewRGBA(surf.Bounds())
	s.commit()
	s.composite(s.ctx)
	return nil
}

// Close finishes any gesture as if the pointer were released, then stops
// pending imports and repaints. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.textFailed(s.tools.Cancel())
		s.sched.Tick(s.ctx)
		s.imp.CancelAll()
		s.sched.Cancel()
		s.cancel()
	})
}

// canvas is the tools.Canvas view of a session.
type canvas struct{ s *Session }

func (c canvas) Stroke(pts []geom.Point, pen surface.Pen) { c.s.surf.StrokeFreehand(pts, pen) }

func (c canvas) Preview(kind surface.Shape, anchor, current geom.Point, pen surface.Pen) {
	if err := c.s.surf.PreviewShape(kind, anchor, current, pen, c.s.hist.Top()); err != nil {
		c.s.log.Printf("preview %v: %v", kind, err)
	}
}

func (c canvas) Text(content string, p geom.Point, size float64, col color.RGBA) error {
	return c.s.surf.DrawText(content, p, size, col)
}

func (c canvas) Commit() { c.s.commit() }

func (c canvas) Schedule(fn func()) {
	c.s.ink = fn
	c.s.redraw()
}

func (c canvas) Flush() { c.s.sched.Tick(c.s.ctx) }

func (c canvas) Redraw() { c.s.redraw() }
