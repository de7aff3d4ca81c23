// Package capture grabs desktop screenshots through the XDG desktop portal
// so they can be imported into the editor.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/example/photoedit/internal/importer"
)

// Options controls the portal request.
type Options struct {
	// Interactive lets the user pick a region or window in the portal UI.
	Interactive bool
	// IncludeCursor embeds the pointer in the image.
	IncludeCursor bool
}

// ErrCancelled is returned when the user dismisses the portal dialog.
var ErrCancelled = errors.New("screenshot cancelled")

// screenshot returns the path of the file the portal wrote.
var screenshot = portalScreenshot

// Screenshot asks the portal for a screenshot and returns the encoded file
// contents. The temporary file is removed.
func Screenshot(ctx context.Context, opts Options) ([]byte, error) {
	path, err := screenshot(ctx, opts)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "remove %s: %v\n", path, rerr)
	}
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image: %w", err)
	}
	return data, nil
}

// Source imports a fresh screenshot.
func Source(opts Options) importer.Source {
	return importer.SourceFunc{
		Label: "screenshot",
		Fetch: func(ctx context.Context) ([]byte, error) { return Screenshot(ctx, opts) },
	}
}
