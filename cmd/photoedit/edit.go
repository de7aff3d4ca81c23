package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/photoedit/internal/appstate"
	"github.com/example/photoedit/internal/capture"
	"github.com/example/photoedit/internal/clipboard"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/surface"
)

// editCmd opens the interactive editor window.
type editCmd struct {
	*root
	fs            *flag.FlagSet
	output        string
	canvas        string
	fromClipboard bool
	capture       bool
	files         []string
	size          surface.Size
}

func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }
func (e *editCmd) Program() string        { return e.subProgram("edit") }
func (e *editCmd) Template() string       { return "edit.txt" }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.output, "output", "", "file written by the save shortcut")
	fs.StringVar(&e.canvas, "canvas", "", "canvas size as WIDTHxHEIGHT or a preset name")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "import the clipboard image on start")
	fs.BoolVar(&e.fromClipboard, "from-clip", false, "import the clipboard image on start (alias)")
	fs.BoolVar(&e.capture, "capture", false, "import a screenshot on start")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	e.files = fs.Args()
	size, err := canvasSize(e.canvas, r)
	if err != nil {
		return nil, err
	}
	e.size = size
	if e.output == "" {
		e.output = "photoedit.png"
		if r != nil && r.config != nil && r.config.SaveDir != "" {
			e.output = filepath.Join(r.config.SaveDir, e.output)
		}
	}
	return e, nil
}

// canvasSize resolves a -canvas value against the presets and the config.
func canvasSize(spec string, r *root) (surface.Size, error) {
	if spec == "" {
		if r != nil && r.config != nil {
			return r.config.Canvas, nil
		}
		return surface.DefaultSize, nil
	}
	for _, p := range surface.Presets {
		if p.Name == spec {
			return p.Size, nil
		}
	}
	size, err := surface.ParseSize(spec)
	if err != nil {
		return surface.Size{}, fmt.Errorf("invalid canvas %q: %w", spec, err)
	}
	return size, nil
}

func (e *editCmd) sources() []importer.Source {
	var srcs []importer.Source
	for _, f := range e.files {
		srcs = append(srcs, importer.File(f))
	}
	if e.fromClipboard {
		srcs = append(srcs, clipboard.Source())
	}
	if e.capture {
		srcs = append(srcs, capture.Source(capture.Options{Interactive: true}))
	}
	return srcs
}

func (e *editCmd) Run() error {
	app := appstate.New(
		appstate.WithOutput(e.output),
		appstate.WithTheme(e.activeTheme),
		appstate.WithNotifier(e.notifier),
		appstate.WithImports(e.sources()...),
	)
	opts := append(e.editorOptions(), editor.WithReporter(app))
	sess, err := editor.New(e.size, opts...)
	if err != nil {
		return fmt.Errorf("failed to create canvas: %w", err)
	}
	app.Run(sess)
	return nil
}
