package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/photoedit/internal/surface"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
canvas = medium
history_depth = 20
save_dir = /tmp/drawings

[pen]
color = tomato
width = 8

[serve]
addr = :9000
mdns = true

[notify]
import = true
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Selection: "#FF00FF80"
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.Canvas != (surface.Size{Width: 1024, Height: 768}) {
		t.Errorf("Unexpected canvas %v", cfg.Canvas)
	}
	if cfg.HistoryDepth != 20 {
		t.Errorf("Expected history_depth 20, got %d", cfg.HistoryDepth)
	}
	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}
	if cfg.Pen.Color != (color.RGBA{255, 99, 71, 255}) || cfg.Pen.Width != 8 {
		t.Errorf("Unexpected pen %+v", cfg.Pen)
	}
	if cfg.Serve.Addr != ":9000" || !cfg.Serve.MDNS {
		t.Errorf("Unexpected serve %+v", cfg.Serve)
	}
	if !cfg.Notify.Import || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.Selection != (color.RGBA{255, 0, 255, 0x80}) {
		t.Errorf("Unexpected Selection color: %+v", th.Selection)
	}
	if th.Canvas != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Unset fields should keep defaults, got Canvas %+v", th.Canvas)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"canvas = 0x10",
		"history_depth = lots",
		"[pen]\nwidth = 0",
		"[pen]\ncolor = notacolour",
		"[serve]\nmdns = maybe",
		"[notify]\nsave = sometimes",
		"[theme.bad]\nBackground = 123456",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
canvas = 640x480
history_depth = 0

[pen]
color = #3366CC
width = 12

[serve]
addr = 0.0.0.0:8642
mdns = true
instance = studio

[notify]
import = true
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.HistoryDepth != cfg2.HistoryDepth {
		t.Errorf("Canvas/history mismatch: %v/%d vs %v/%d", cfg.Canvas, cfg.HistoryDepth, cfg2.Canvas, cfg2.HistoryDepth)
	}
	if cfg.Pen != cfg2.Pen {
		t.Errorf("Pen mismatch: %+v vs %+v", cfg.Pen, cfg2.Pen)
	}
	if cfg.Serve != cfg2.Serve {
		t.Errorf("Serve mismatch: %+v vs %+v", cfg.Serve, cfg2.Serve)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	t.Setenv(EnvPath, "")
	path := filepath.Join(t.TempDir(), "config.rc")
	if err := os.WriteFile(path, []byte("history_depth = 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoader("v1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistoryDepth != 7 {
		t.Errorf("Expected history_depth 7, got %d", cfg.HistoryDepth)
	}
}

func TestLoaderMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvPath, "")
	cfg, err := NewLoader("v1.0.0", filepath.Join(t.TempDir(), "missing.rc")).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas != surface.DefaultSize || cfg.Pen.Width != 5 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestLoaderEnvPathWins(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "env.rc")
	override := filepath.Join(dir, "override.rc")
	if err := os.WriteFile(env, []byte("history_depth = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(override, []byte("history_depth = 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, env)
	l := &Loader{Version: "v1.0.0", OverridePath: override}
	if got := l.GetConfigPath(); got != env {
		t.Fatalf("GetConfigPath() = %q, want %q", got, env)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistoryDepth != 3 {
		t.Errorf("Expected history_depth 3, got %d", cfg.HistoryDepth)
	}
}

func TestLoaderSavePath(t *testing.T) {
	t.Setenv(EnvPath, "")
	home := t.TempDir()
	l := &Loader{Version: "v1.0.0", Home: home}
	got, err := l.SavePath()
	if err != nil {
		t.Fatalf("SavePath: %v", err)
	}
	if want := filepath.Join(home, ".config", "photoedit", "config.rc"); got != want {
		t.Errorf("SavePath() = %q, want %q", got, want)
	}
	if _, err := (&Loader{}).SavePath(); err == nil {
		t.Error("expected error without a home directory")
	}
}

func TestLoaderReportsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rc")
	if err := os.WriteFile(path, []byte("[pen]\nwidth = wide\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, path)
	if _, err := (&Loader{}).Load(); err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error naming %s, got %v", path, err)
	}
}
