package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/photoedit/internal/history"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/theme"
)

// Pen holds the initial drawing colour and width.
type Pen struct {
	Color color.RGBA
	Width int
}

// Serve holds settings for the remote editing server.
type Serve struct {
	Addr string
	MDNS bool
	// Instance is the advertised service name; empty uses the host name.
	Instance string
}

// Notify holds notification settings.
type Notify struct {
	Import bool
	Save   bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	Canvas       surface.Size
	HistoryDepth int
	SaveDir      string
	Pen          Pen
	Serve        Serve
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:        "", // Default to empty to allow fallback to Env/Default
		Canvas:       surface.DefaultSize,
		HistoryDepth: history.DefaultMaxDepth,
		Pen:          Pen{Color: color.RGBA{0, 0, 0, 255}, Width: 5},
		Serve:        Serve{Addr: "127.0.0.1:8642"},
		Themes:       make(map[string]*theme.Theme),
	}
}

// ParseColor accepts #RRGGBB, #RRGGBBAA or an SVG colour name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return theme.ParseColor(s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "canvas = %s\n", c.Canvas)
	fmt.Fprintf(&sb, "history_depth = %d\n", c.HistoryDepth)
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[pen]\n")
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Pen.Color))
	fmt.Fprintf(&sb, "width = %d\n", c.Pen.Width)
	sb.WriteString("\n")

	sb.WriteString("[serve]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Serve.Addr)
	fmt.Fprintf(&sb, "mdns = %v\n", c.Serve.MDNS)
	if c.Serve.Instance != "" {
		fmt.Fprintf(&sb, "instance = %s\n", c.Serve.Instance)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "import = %v\n", c.Notify.Import)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Colors() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
