package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ext = ".theme"

// Loader finds themes by name among the embedded defaults, the user's
// theme directory and the system one, in that order.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a Loader with the standard directories.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "photoedit", "themes"),
		SystemDir: "/usr/share/photoedit/themes",
	}
}

// roots lists the searched trees. Missing directories simply yield nothing.
func (l *Loader) roots() []fs.FS {
	out := []fs.FS{}
	if sub, err := fs.Sub(EmbeddedThemes, "defaults"); err == nil {
		out = append(out, sub)
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir != "" {
			out = append(out, os.DirFS(dir))
		}
	}
	return out
}

// Load returns the named theme. A name that is an existing file path is
// parsed directly; an empty name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	file := name
	if !strings.HasSuffix(file, ext) {
		file += ext
	}
	if !fs.ValidPath(file) {
		return nil, fmt.Errorf("theme '%s' not found", name)
	}
	for _, root := range l.roots() {
		t, err := parseFile(root, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return t, err
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

// Names lists every theme Load can find by name, sorted and without
// duplicates.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, root := range l.roots() {
		matches, err := fs.Glob(root, "*"+ext)
		if err != nil {
			continue
		}
		for _, m := range matches {
			n := strings.TrimSuffix(m, ext)
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

func parseFile(fsys fs.FS, file string) (*Theme, error) {
	f, err := fsys.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", file, err)
	}
	return t, nil
}
