//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/example/photoedit/internal/importer"
)

func withoutDisplay(t *testing.T) {
	t.Helper()
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	useBoard(t, &desktop{})
}

func TestReadWithoutDisplay(t *testing.T) {
	withoutDisplay(t)
	if _, err := ReadText(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

func TestSourceFailsAsDecodeError(t *testing.T) {
	withoutDisplay(t)
	im := importer.New(1)
	im.Start(context.Background(), Source())
	res := <-im.Results()
	if res.Image != nil {
		t.Fatal("expected no image")
	}
	if !errors.Is(res.Err, importer.ErrImageDecode) {
		t.Fatalf("expected decode error, got %v", res.Err)
	}
	if !errors.Is(res.Err, errNoDisplay) {
		t.Fatalf("expected the display error to be wrapped, got %v", res.Err)
	}
	if res.Name != "clipboard" {
		t.Fatalf("name = %q", res.Name)
	}
}
