package editor

import (
	"image"
	"log"
	"time"

	"github.com/example/photoedit/internal/history"
	"github.com/example/photoedit/internal/layers"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/theme"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	theme         *theme.Theme
	historyDepth  int
	pen           surface.Pen
	panelSinks    []layers.Sink
	frameSinks    []func(*image.RGBA)
	reporter      Reporter
	logger        *log.Logger
	frameInterval time.Duration
}

func defaults() config {
	return config{
		theme:         theme.Default(),
		historyDepth:  history.DefaultMaxDepth,
		pen:           DefaultPen,
		frameInterval: 16 * time.Millisecond,
	}
}

// WithTheme sets the canvas fill and selection colours.
func WithTheme(t *theme.Theme) Option {
	return func(c *config) {
		if t != nil {
			c.theme = t
		}
	}
}

// WithHistoryDepth caps the undo stack; zero means unbounded.
func WithHistoryDepth(n int) Option { return func(c *config) { c.historyDepth = n } }

// WithPen sets the initial colour and width.
func WithPen(p surface.Pen) Option { return func(c *config) { c.pen = p } }

// WithPanelSink receives the layer view after every object change.
func WithPanelSink(s layers.Sink) Option {
	return func(c *config) { c.panelSinks = append(c.panelSinks, s) }
}

// WithFrameSink is called with the composited frame after each repaint. The
// image is reused between frames and must not be retained.
func WithFrameSink(fn func(*image.RGBA)) Option {
	return func(c *config) { c.frameSinks = append(c.frameSinks, fn) }
}

// WithReporter receives user-facing messages.
func WithReporter(r Reporter) Option { return func(c *config) { c.reporter = r } }

// WithLogger replaces log.Default.
func WithLogger(l *log.Logger) Option { return func(c *config) { c.logger = l } }

// WithFrameInterval sets the repaint tick used by Run.
func WithFrameInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.frameInterval = d
		}
	}
}
