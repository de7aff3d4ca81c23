//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var platform board = &desktop{}

// desktop talks to X11 or Wayland once a display is known to exist.
type desktop struct {
	once sync.Once
	err  error
}

func (d *desktop) init() error {
	d.once.Do(func() {
		if !haveDisplay() {
			d.err = errNoDisplay
			return
		}
		d.err = clipboard.Init()
	})
	return d.err
}

func native(f format) clipboard.Format {
	if f == formatImage {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (d *desktop) read(f format) ([]byte, error) {
	if err := d.init(); err != nil {
		return nil, err
	}
	return clipboard.Read(native(f)), nil
}

func (d *desktop) write(f format, data []byte) error {
	if err := d.init(); err != nil {
		return err
	}
	clipboard.Write(native(f), data)
	return nil
}

func haveDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
