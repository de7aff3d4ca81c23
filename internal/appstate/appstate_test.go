package appstate

import (
	"image"
	"image/color"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/mobile/event/key"

	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/geom"
	"github.com/example/photoedit/internal/layers"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/tools"
)

func TestLayerHit(t *testing.T) {
	panel := image.Rect(600, 24, 780, 400)
	a, b := uuid.New(), uuid.New()
	view := layers.View{{ID: a, Name: "text 2"}, {ID: b, Name: "image 1"}}

	row := layerRowRect(panel, 1)
	cmd, ok := layerHit(view, panel, image.Pt(row.Min.X+4, row.Min.Y+5))
	if !ok || cmd.Op != layers.OpSelect || cmd.ID != b {
		t.Fatalf("name click = %+v %v", cmd, ok)
	}

	for i, want := range layerButtons {
		br := layerButtonRect(layerRowRect(panel, 0), i)
		cmd, ok := layerHit(view, panel, br.Min.Add(image.Pt(2, 2)))
		if !ok || cmd.Op != want.op || cmd.ID != a {
			t.Fatalf("button %q = %+v %v", want.label, cmd, ok)
		}
	}

	if _, ok := layerHit(view, panel, image.Pt(panel.Min.X+4, panel.Min.Y+4)); ok {
		t.Fatalf("header click should not hit a row")
	}
	if _, ok := layerHit(view, panel, layerRowRect(panel, 5).Min.Add(image.Pt(1, 1))); ok {
		t.Fatalf("click below the last row should not hit")
	}
}

func TestComputeLayoutPartitionsWindow(t *testing.T) {
	l := computeLayout(1000, 700, 80)
	if l.canvas != image.Rect(80, titleHeight, 1000-layersWidth, 700-bottomHeight) {
		t.Fatalf("canvas = %v", l.canvas)
	}
	if l.canvas.Overlaps(l.toolbar) || l.canvas.Overlaps(l.layers) || l.canvas.Overlaps(l.bottom) {
		t.Fatalf("canvas overlaps chrome: %+v", l)
	}
}

func TestToolbarWidthFitsLabels(t *testing.T) {
	w := toolbarWidthFor("PhotoEdit", "O:Circle", "V:Select")
	if w < labelWidth("PhotoEdit")+8 || w < labelWidth("V:Select")+8 {
		t.Fatalf("toolbar width %d too narrow", w)
	}
	if got := toolbarWidthFor(""); got != minToolbarWidth {
		t.Fatalf("empty toolbar width = %d", got)
	}
}

func TestToolbarHit(t *testing.T) {
	hits := &toolbarHits{}
	for _, tl := range toolLabels {
		hits.tools = append(hits.tools, &CacheButton{Button: &ToolButton{label: tl.label, tool: tl.tool}})
	}
	r := image.Rect(0, titleHeight, 80, 600)
	placeToolbar(r, hits)

	kind, idx := toolbarHit(hits, image.Pt(10, titleHeight+24*4+5))
	if kind != "tool" || toolLabels[idx].tool != tools.Text {
		t.Fatalf("tool hit = %s %d", kind, idx)
	}
	kind, idx = toolbarHit(hits, hits.palette[2].Min.Add(image.Pt(1, 1)))
	if kind != "color" || idx != 2 {
		t.Fatalf("palette hit = %s %d", kind, idx)
	}
	kind, idx = toolbarHit(hits, hits.widths[0].Min.Add(image.Pt(1, 1)))
	if kind != "width" || idx != 0 {
		t.Fatalf("width hit = %s %d", kind, idx)
	}
}

func TestStepWidth(t *testing.T) {
	if got := stepWidth(surface.Pen{Width: 5}, 1); got != 8 {
		t.Fatalf("thicker than 5 = %d", got)
	}
	if got := stepWidth(surface.Pen{Width: 1}, -1); got != 1 {
		t.Fatalf("thinner than 1 = %d", got)
	}
	if got := stepWidth(surface.Pen{Width: 100}, 1); got != 32 {
		t.Fatalf("thicker than max = %d", got)
	}
	if got := widthIndex(6); widths[got] != 5 {
		t.Fatalf("closest width to 6 = %d", widths[got])
	}
}

func TestEnsurePaletteColor(t *testing.T) {
	if idx := EnsurePaletteColor(color.RGBA{255, 0, 0, 255}, ""); PaletteColors()[idx].Name != "Red" {
		t.Fatalf("existing colour not reused")
	}
	orange := color.RGBA{255, 165, 0, 255}
	idx := EnsurePaletteColor(orange, "Orange")
	if got := PaletteColors()[idx]; got.Color != orange || got.Name != "Orange" {
		t.Fatalf("added colour = %+v", got)
	}
	if again := EnsurePaletteColor(orange, ""); again != idx {
		t.Fatalf("duplicate colour added at %d", again)
	}
}

func TestReportBeforeWindowIsQueued(t *testing.T) {
	a := New()
	a.Report(editor.Message{Kind: editor.MessageInfo, Text: "hello"})
	var sent []interface{}
	pending := a.setSender(func(ev interface{}) { sent = append(sent, ev) })
	if len(pending) != 1 || pending[0].Text != "hello" {
		t.Fatalf("pending = %+v", pending)
	}
	a.Report(editor.Message{Text: "later"})
	if len(sent) != 1 || sent[0].(messageEvent).Text != "later" {
		t.Fatalf("sent = %+v", sent)
	}
}

func TestHandleTextKey(t *testing.T) {
	sess, err := editor.New(surface.Size{Width: 200, Height: 100}, editor.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()
	sess.SetTool(tools.Text)
	sess.DownAt(geom.Pt(10, 50))
	sess.UpAt(geom.Pt(10, 50))

	for _, r := range "hi!" {
		handleTextKey(sess, key.Event{Rune: r, Direction: key.DirPress})
	}
	handleTextKey(sess, key.Event{Code: key.CodeDeleteBackspace, Rune: -1, Direction: key.DirPress})
	if _, content, ok := sess.Editing(); !ok || content != "hi" {
		t.Fatalf("editing = %q %v", content, ok)
	}
	handleTextKey(sess, key.Event{Code: key.CodeReturnEnter, Rune: '\n', Direction: key.DirPress})
	if _, _, ok := sess.Editing(); ok {
		t.Fatalf("still editing after enter")
	}
	if undo, _ := sess.HistoryDepth(); undo != 2 {
		t.Fatalf("history depth = %d, want 2", undo)
	}
}
