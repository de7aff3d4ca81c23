//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"os"
)

var errCGODisabled = errors.New("clipboard operations require cgo support")

var platform board = &desktop{}

// desktop reports why the clipboard cannot be reached in a cgo-free build.
type desktop struct{}

func (*desktop) check() error {
	if !haveDisplay() {
		return errNoDisplay
	}
	return errCGODisabled
}

func (d *desktop) read(format) ([]byte, error) { return nil, d.check() }

func (d *desktop) write(format, []byte) error { return d.check() }

func haveDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
