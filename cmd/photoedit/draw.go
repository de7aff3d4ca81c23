package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/photoedit/internal/appstate"
	"github.com/example/photoedit/internal/clipboard"
	"github.com/example/photoedit/internal/config"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/geom"
	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/layers"
	"github.com/example/photoedit/internal/notify"
	"github.com/example/photoedit/internal/render"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/tools"
)

// drawCmd replays an edit script against a headless session and writes the
// flattened result.
type drawCmd struct {
	*root
	fs          *flag.FlagSet
	script      string
	base        string
	output      string
	canvas      string
	toClipboard bool
	shadow      bool
	shadowOpts  render.Shadow
	shadowAt    string
	size        surface.Size
	stdin       io.Reader
}

func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }
func (d *drawCmd) Program() string        { return d.subProgram("draw") }
func (d *drawCmd) Template() string       { return "draw.txt" }

var drawFlagNames = map[string]struct{}{
	"output":         {},
	"base":           {},
	"canvas":         {},
	"to-clipboard":   {},
	"to-clip":        {},
	"shadow":         {},
	"shadow-radius":  {},
	"shadow-offset":  {},
	"shadow-opacity": {},
}

var drawBoolFlags = map[string]struct{}{
	"to-clipboard": {},
	"to-clip":      {},
	"shadow":       {},
}

// parseColor accepts colour names, palette names and hex values.
func parseColor(s string) (color.RGBA, error) {
	if strings.TrimSpace(s) == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, err := config.ParseColor(s); err == nil {
		return c, nil
	}
	for _, entry := range appstate.PaletteColors() {
		if strings.EqualFold(entry.Name, strings.TrimSpace(s)) {
			return entry.Color, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.output, "output", "", "output PNG path")
	fs.StringVar(&d.base, "base", "", "image placed at the origin before the script runs")
	fs.StringVar(&d.canvas, "canvas", "", "canvas size as WIDTHxHEIGHT or a preset name (defaults to the base image size)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	d.shadowOpts = render.DefaultShadow
	fs.BoolVar(&d.shadow, "shadow", false, "add a drop shadow around the result")
	fs.IntVar(&d.shadowOpts.Radius, "shadow-radius", d.shadowOpts.Radius, "drop shadow blur radius in pixels")
	fs.StringVar(&d.shadowAt, "shadow-offset", formatOffset(d.shadowOpts.Offset), "drop shadow offset as dx,dy")
	fs.Float64Var(&d.shadowOpts.Opacity, "shadow-opacity", d.shadowOpts.Opacity, "drop shadow opacity between 0 and 1")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) != 1 {
		return nil, &UsageError{of: d}
	}
	d.script = positionals[0]
	if d.shadowOpts.Offset, err = parseOffset(d.shadowAt); err != nil {
		return nil, err
	}
	if d.shadowOpts.Opacity < 0 || d.shadowOpts.Opacity > 1 {
		return nil, fmt.Errorf("shadow-opacity must be between 0 and 1")
	}
	if d.output == "" && !d.toClipboard {
		return nil, fmt.Errorf("an output file or -to-clipboard is required")
	}
	if d.canvas != "" || d.base == "" {
		if d.size, err = canvasSize(d.canvas, r); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	var in io.Reader = d.stdin
	if d.script != "-" {
		f, err := os.Open(d.script)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	var base image.Image
	if d.base != "" {
		img, err := decodeFile(d.base)
		if err != nil {
			return err
		}
		base = img
		if d.size == (surface.Size{}) {
			b := img.Bounds()
			d.size = surface.Size{Width: b.Dx(), Height: b.Dy()}
		}
	}

	var reported []editor.Message
	var opts []editor.Option
	if d.root != nil {
		opts = d.editorOptions()
	}
	opts = append(opts, editor.WithReporter(editor.ReporterFunc(func(m editor.Message) {
		reported = append(reported, m)
	})))
	sess, err := editor.New(d.size, opts...)
	if err != nil {
		return fmt.Errorf("failed to create canvas: %w", err)
	}
	defer sess.Close()
	if base != nil {
		sess.AddImage(base, 0, 0)
	}

	if err := replay(sess, in, &reported); err != nil {
		return err
	}
	out := sess.Flatten()
	if d.shadow {
		out, _ = render.WithShadow(out, d.shadowOpts)
	}

	if d.output != "" {
		if err := writePNG(d.output, out); err != nil {
			return err
		}
		d.notify().Save(d.output)
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(out); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		d.notify().Copy("image")
	}
	return nil
}

func (d *drawCmd) notify() *notify.Notifier {
	if d.root == nil {
		return nil
	}
	return d.notifier
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	img, err := importer.Decode(context.Background(), path, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// scriptError points at the failing script line.
type scriptError struct {
	line int
	err  error
}

func (e *scriptError) Error() string { return fmt.Sprintf("line %d: %v", e.line, e.err) }

func (e *scriptError) Unwrap() error { return e.err }

// replay runs every command in r. A message reported with an error while a
// command runs fails that command.
func replay(sess *editor.Session, r io.Reader, reported *[]editor.Message) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		mark := len(*reported)
		err := runScriptCmd(sess, strings.ToLower(fields[0]), fields[1:])
		if err == nil {
			for _, m := range (*reported)[mark:] {
				if m.Err != nil {
					err = m.Err
					break
				}
			}
		}
		if err != nil {
			return &scriptError{line: line, err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

func runScriptCmd(sess *editor.Session, name string, args []string) error {
	switch name {
	case "canvas":
		if len(args) != 1 {
			return errors.New("canvas requires WIDTHxHEIGHT")
		}
		size, err := surface.ParseSize(args[0])
		if err != nil {
			return err
		}
		return sess.Replace(size)
	case "tool":
		if len(args) != 1 {
			return errors.New("tool requires a name")
		}
		t, err := tools.ParseTool(args[0])
		if err != nil {
			return err
		}
		sess.SetTool(t)
	case "color":
		if len(args) != 1 {
			return errors.New("color requires a value")
		}
		c, err := parseColor(args[0])
		if err != nil {
			return err
		}
		sess.SetColor(c)
	case "width":
		v, err := expectInts(args, 1, name)
		if err != nil {
			return err
		}
		sess.SetWidth(v[0])
	case "stroke":
		pts, err := expectPoints(args, name)
		if err != nil {
			return err
		}
		gesture(sess, tools.Brush, pts...)
	case "rect", "circle", "line":
		v, err := expectInts(args, 4, name)
		if err != nil {
			return err
		}
		t := map[string]tools.Tool{"rect": tools.Rectangle, "circle": tools.Circle, "line": tools.Line}[name]
		gesture(sess, t, pt(v[0], v[1]), pt(v[2], v[3]))
	case "drag":
		v, err := expectInts(args, 4, name)
		if err != nil {
			return err
		}
		gesture(sess, tools.Select, pt(v[0], v[1]), pt(v[2], v[3]))
	case "text", "label":
		if len(args) < 3 {
			return fmt.Errorf("%s requires x y and content", name)
		}
		v, err := expectInts(args[:2], 2, name)
		if err != nil {
			return err
		}
		content := strings.Join(args[2:], " ")
		if name == "label" {
			sess.AddText(content, float64(v[0]), float64(v[1]))
			return nil
		}
		prev := sess.Tool()
		sess.SetTool(tools.Text)
		sess.DownAt(pt(v[0], v[1]))
		for _, r := range content {
			sess.TypeRune(r)
		}
		sess.CommitText()
		sess.SetTool(prev)
	case "image":
		if len(args) != 3 {
			return errors.New("image requires path x y")
		}
		v, err := expectInts(args[1:], 2, name)
		if err != nil {
			return err
		}
		img, err := decodeFile(args[0])
		if err != nil {
			return err
		}
		sess.AddImage(img, float64(v[0]), float64(v[1]))
	case "undo":
		sess.Undo()
	case "redo":
		sess.Redo()
	case "layer":
		if len(args) != 2 {
			return errors.New("layer requires an action and a row")
		}
		v, err := expectInts(args[1:], 1, name)
		if err != nil {
			return err
		}
		view := sess.Layers()
		if v[0] < 1 || v[0] > len(view) {
			return fmt.Errorf("no layer row %d", v[0])
		}
		return sess.Apply(layers.Command{Op: layers.Op(strings.ToLower(args[0])), ID: view[v[0]-1].ID})
	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

// gesture presses at the first point, moves through the rest and releases
// at the last, using t for the duration. A replay ticks one frame per sample.
func gesture(sess *editor.Session, t tools.Tool, pts ...geom.Point) {
	prev := sess.Tool()
	sess.SetTool(t)
	sess.DownAt(pts[0])
	for _, p := range pts[1:] {
		sess.MoveAt(p)
		sess.Frame()
	}
	sess.UpAt(pts[len(pts)-1])
	sess.Frame()
	sess.SetTool(prev)
}

func formatOffset(p image.Point) string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

func parseOffset(s string) (image.Point, error) {
	dx, dy, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid offset %q: expected dx,dy", s)
	}
	v, err := expectInts([]string{strings.TrimSpace(dx), strings.TrimSpace(dy)}, 2, "offset")
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(v[0], v[1]), nil
}

func pt(x, y int) geom.Point { return geom.Pt(float64(x), float64(y)) }

func expectPoints(args []string, cmd string) ([]geom.Point, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%s requires x y pairs", cmd)
	}
	v, err := expectInts(args, len(args), cmd)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Point, 0, len(v)/2)
	for i := 0; i < len(v); i += 2 {
		pts = append(pts, pt(v[i], v[i+1]))
	}
	return pts, nil
}

func expectInts(args []string, n int, cmd string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", cmd, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

// splitDrawArgs lets flags follow the script argument.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			return nil, nil, fmt.Errorf("unknown flag %s", arg)
		}
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
