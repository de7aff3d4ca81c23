// Package appstate is the desktop host for an editor session: a shiny
// window with a tool bar, a layers panel and keyboard shortcuts.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/photoedit/internal/capture"
	"github.com/example/photoedit/internal/clipboard"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/fonts"
	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/notify"
	"github.com/example/photoedit/internal/theme"
	"github.com/example/photoedit/internal/tools"
)

// messageDuration is how long an overlay message stays up.
const messageDuration = 2 * time.Second

// AppState holds the host configuration. It also acts as the session's
// Reporter, turning messages into overlays.
type AppState struct {
	Output string
	Theme  *theme.Theme

	imports  []importer.Source
	notifier *notify.Notifier
	onClose  func()

	mu      sync.Mutex
	send    func(interface{})
	pending []editor.Message
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the PNG path written by the save shortcut.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the chrome colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithImports queues sources to import once the window is up.
func WithImports(srcs ...importer.Source) Option {
	return func(a *AppState) { a.imports = append(a.imports, srcs...) }
}

// WithNotifier announces imports, saves and copies on the desktop.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{Output: "photoedit.png", Theme: theme.Default()}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

type messageEvent editor.Message

type importEvent importer.Result

// Report shows m as an overlay. Messages reported before the window opens
// are shown once it does.
func (a *AppState) Report(m editor.Message) {
	log.Print(m.Text)
	a.mu.Lock()
	send := a.send
	if send == nil {
		a.pending = append(a.pending, m)
	}
	a.mu.Unlock()
	if send != nil {
		send(messageEvent(m))
	}
}

func (a *AppState) setSender(fn func(interface{})) []editor.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.send = fn
	p := a.pending
	a.pending = nil
	return p
}

// Run executes the UI loop using shiny's driver. It returns when the window
// closes; the session is closed by then.
func (a *AppState) Run(sess *editor.Session) {
	driver.Main(func(s screen.Screen) { a.Main(s, sess) })
}

// Main drives sess from the window's event loop.
func (a *AppState) Main(s screen.Screen, sess *editor.Session) {
	th := a.Theme
	labels := make([]string, len(toolLabels))
	for i, tl := range toolLabels {
		labels[i] = tl.label
	}
	toolbarWidth := toolbarWidthFor("PhotoEdit", labels...)

	sz := sess.Size()
	width := sz.Width + toolbarWidth + layersWidth + 64
	height := sz.Height + titleHeight + bottomHeight + 64
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "PhotoEdit"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer func() {
		a.setSender(nil)
		sess.Close()
		if a.onClose != nil {
			a.onClose()
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case res := <-sess.ImportResults():
				w.Send(importEvent(res))
			case <-done:
				return
			}
		}
	}()

	var message string
	var messageUntil time.Time
	showMessage := func(text string) {
		message = text
		messageUntil = time.Now().Add(messageDuration)
	}
	for _, m := range a.setSender(func(ev interface{}) { w.Send(ev) }) {
		showMessage(m.Text)
	}
	for _, src := range a.imports {
		sess.Import(src)
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	lay := computeLayout(width, height, toolbarWidth)
	hits := &toolbarHits{}
	for _, tl := range toolLabels {
		tl := tl
		hits.tools = append(hits.tools, &CacheButton{Button: &ToolButton{label: tl.label, tool: tl.tool, onSelect: func() { sess.SetTool(tl.tool) }}})
	}
	relayout := func() {
		lay = computeLayout(width, height, toolbarWidth)
		sess.Fit(containerRect(lay.canvas))
		placeToolbar(lay.toolbar, hits)
	}
	relayout()

	hoverTool := -1
	hoverShortcut := -1
	var shortcuts []Shortcut
	quit := false

	actions := map[string]func(){}
	keyboardAction := map[KeyShortcut]string{}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}

	register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if !sess.Undo() {
			showMessage("nothing to undo")
		}
	})
	register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() {
		if !sess.Redo() {
			showMessage("nothing to redo")
		}
	})
	register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, func() {
		sess.Import(clipboard.Source())
	})
	register("capture", shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, func() {
		sess.Import(capture.Source(capture.Options{Interactive: true}))
	})
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if err := clipboard.WriteImage(sess.Flatten()); err != nil {
			log.Printf("copy: %v", err)
			showMessage("copy failed")
			return
		}
		a.notifier.Copy("image")
		showMessage("image copied to clipboard")
	})
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		if err := savePNG(a.Output, sess.Flatten()); err != nil {
			log.Printf("save: %v", err)
			showMessage("save failed")
			return
		}
		a.notifier.Save(a.Output)
		showMessage(fmt.Sprintf("saved %s", a.Output))
	})
	register("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, sess.DeleteSelected)
	register("deselect", shortcutList{{Code: key.CodeEscape}}, sess.Deselect)
	register("thinner", shortcutList{{Rune: '['}}, func() { sess.SetWidth(stepWidth(sess.Pen(), -1)) })
	register("thicker", shortcutList{{Rune: ']'}}, func() { sess.SetWidth(stepWidth(sess.Pen(), 1)) })
	register("quit", shortcutList{{Rune: 'q'}}, func() { quit = true })
	for _, tl := range toolLabels {
		tl := tl
		register(tl.tool.String(), shortcutList{{Rune: tl.key}}, func() { sess.SetTool(tl.tool) })
	}

	register("textdone", nil, sess.CommitText)
	register("textcancel", nil, sess.CancelText)

	trigger := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	buildShortcuts := func() []Shortcut {
		var list []Shortcut
		if _, _, editing := sess.Editing(); editing {
			list = []Shortcut{
				{label: "Enter:place", action: func() { trigger("textdone") }},
				{label: "Esc:cancel", action: func() { trigger("textcancel") }},
				{label: "^V:paste text"},
			}
		} else {
			list = []Shortcut{
				{label: "^Z:undo", action: func() { trigger("undo") }},
				{label: "^Y:redo", action: func() { trigger("redo") }},
				{label: "^V:paste", action: func() { trigger("paste") }},
				{label: "^N:capture", action: func() { trigger("capture") }},
				{label: "^C:copy image", action: func() { trigger("copy") }},
				{label: "^S:save", action: func() { trigger("save") }},
				{label: "Del:delete", action: func() { trigger("delete") }},
				{label: "[/]:width", action: func() { trigger("thicker") }},
				{label: "Q:quit", action: func() { trigger("quit") }},
			}
		}
		placeShortcuts(lay.bottom, list)
		return list
	}
	shortcuts = buildShortcuts()

	for !quit {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			relayout()
			w.Send(paint.Event{})
		case messageEvent:
			showMessage(e.Text)
			w.Send(paint.Event{})
		case importEvent:
			sess.HandleImport(importer.Result(e))
			if e.Err == nil {
				a.notifier.Import(e.Name, e.Image)
			}
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			shortcuts = buildShortcuts()
			st := paintState{
				width:         width,
				height:        height,
				theme:         th,
				layout:        lay,
				frame:         sess.Flatten(),
				display:       displayRect(sess.Mapper().Rect()),
				view:          sess.Layers(),
				toolbar:       hits,
				tool:          sess.Tool(),
				pen:           sess.Pen(),
				hoverTool:     hoverTool,
				shortcuts:     shortcuts,
				hoverShortcut: hoverShortcut,
				status:        statusLine(sess),
				message:       message,
				messageUntil:  messageUntil,
			}
			st.caret, st.caretSize, st.editing = caretPosition(sess)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			p := image.Point{int(e.X), int(e.Y)}
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
			if !p.In(lay.canvas) && sess.State() != tools.Idle {
				sess.PointerLeave()
			}
			switch {
			case p.In(lay.bottom):
				hoverShortcut = -1
				for i := range shortcuts {
					if p.In(shortcuts[i].rect) {
						hoverShortcut = i
						if press {
							shortcuts[i].Activate()
						}
						break
					}
				}
			case p.In(lay.toolbar):
				hoverTool = -1
				kind, idx := toolbarHit(hits, p)
				switch kind {
				case "tool":
					hoverTool = idx
					if press {
						hits.tools[idx].Activate()
					}
				case "color":
					if press {
						if colors := PaletteColors(); idx < len(colors) {
							sess.SetColor(colors[idx].Color)
						}
					}
				case "width":
					if press {
						sess.SetWidth(widths[idx])
					}
				}
			case p.In(lay.layers):
				if press {
					if cmd, ok := layerHit(sess.Layers(), lay.layers, p); ok {
						if err := sess.Apply(cmd); err != nil {
							log.Printf("layers: %v", err)
						}
					}
				}
			case p.In(lay.canvas):
				hoverTool, hoverShortcut = -1, -1
				switch {
				case press:
					sess.PointerDown(float64(e.X), float64(e.Y))
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
					sess.PointerUp(float64(e.X), float64(e.Y))
				case e.Direction == mouse.DirNone:
					sess.PointerMove(float64(e.X), float64(e.Y))
				}
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if _, _, editing := sess.Editing(); editing {
				handleTextKey(sess, e)
				w.Send(paint.Event{})
				continue
			}
			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
			if e.Rune > 0 {
				ks.Code = key.CodeUnknown
			}
			if action, ok := keyboardAction[ks]; ok {
				trigger(action)
				continue
			}
			// Codes without runes are registered without the rune.
			if action, ok := keyboardAction[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]; ok {
				trigger(action)
			}
		case error:
			log.Print(e)
		}
	}
}

// handleTextKey routes a key press to the text being typed.
func handleTextKey(sess *editor.Session, e key.Event) {
	switch {
	case e.Code == key.CodeReturnEnter:
		sess.CommitText()
	case e.Code == key.CodeEscape:
		sess.CancelText()
	case e.Code == key.CodeDeleteBackspace:
		sess.Backspace()
	case e.Modifiers&key.ModControl != 0 && unicode.ToLower(e.Rune) == 'v':
		txt, err := clipboard.ReadText()
		if err != nil {
			log.Printf("paste text: %v", err)
			return
		}
		for _, r := range txt {
			if unicode.IsPrint(r) {
				sess.TypeRune(r)
			}
		}
	case e.Modifiers&key.ModControl == 0 && e.Rune > 0 && unicode.IsPrint(e.Rune):
		sess.TypeRune(e.Rune)
	}
}

// caretPosition returns where the caret goes in window space.
func caretPosition(sess *editor.Session) (image.Point, int, bool) {
	origin, content, editing := sess.Editing()
	if !editing {
		return image.Point{}, 0, false
	}
	size := float64(sess.Pen().Width)
	if size < 1 {
		size = fonts.DefaultSize
	}
	if wpx, err := fonts.Measure(content, size); err == nil {
		origin.X += float64(wpx)
	}
	m := sess.Mapper()
	x, y, ok := m.ToDisplay(origin)
	if !ok {
		return image.Point{}, 0, false
	}
	return image.Pt(int(x), int(y)), int(size*m.Scale() + 0.5), true
}

func statusLine(sess *editor.Session) string {
	pen := sess.Pen()
	undo, redo := sess.HistoryDepth()
	sz := sess.Size()
	return fmt.Sprintf("%s  %s %dpx  %s  undo %d  redo %d", sess.Tool(), theme.Hex(pen.Color), pen.Width, sz, undo-1, redo)
}

func savePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("save: closing file: %v", cerr)
		}
		return err
	}
	return out.Close()
}
