package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/photoedit/internal/appstate"
	"github.com/example/photoedit/internal/importer"
	"github.com/example/photoedit/internal/surface"
	"github.com/example/photoedit/internal/theme"
)

// presetsCmd prints the built-in choices offered by the editor.
type presetsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (p *presetsCmd) FlagSet() *flag.FlagSet { return p.fs }
func (p *presetsCmd) Program() string        { return p.subProgram("presets") }
func (p *presetsCmd) Template() string       { return "presets.txt" }

func parsePresetsCmd(args []string, r *root) (*presetsCmd, error) {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	p := &presetsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(p)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *presetsCmd) Run() error {
	kinds := p.fs.Args()
	if len(kinds) == 0 {
		kinds = []string{"canvas", "colors", "widths", "themes", "formats"}
	}
	for _, kind := range kinds {
		switch kind {
		case "canvas":
			fmt.Fprintln(p.out, "canvas:")
			for _, pr := range surface.Presets {
				def := ""
				if pr.Size == surface.DefaultSize {
					def = " (default)"
				}
				fmt.Fprintf(p.out, "  %-8s %s%s\n", pr.Name, pr.Size, def)
			}
		case "colors":
			fmt.Fprintln(p.out, "colors:")
			for _, c := range appstate.PaletteColors() {
				fmt.Fprintf(p.out, "  %-8s %s\n", c.Name, theme.Hex(c.Color))
			}
		case "widths":
			var ws []string
			for _, w := range appstate.WidthOptions() {
				ws = append(ws, fmt.Sprint(w))
			}
			fmt.Fprintf(p.out, "widths: %s\n", strings.Join(ws, " "))
		case "themes":
			fmt.Fprintf(p.out, "themes: %s\n", strings.Join(theme.NewLoader().Names(), " "))
		case "formats":
			fmt.Fprintf(p.out, "formats: %s\n", strings.Join(importer.Formats(), " "))
		default:
			return fmt.Errorf("unknown preset kind %q", kind)
		}
	}
	return nil
}
