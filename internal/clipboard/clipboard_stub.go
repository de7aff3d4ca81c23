//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

var platform board = unsupported{}

type unsupported struct{}

func (unsupported) read(f format) ([]byte, error) {
	return nil, fmt.Errorf("clipboard %s operations are not supported on this platform", f)
}

func (unsupported) write(f format, _ []byte) error {
	return fmt.Errorf("clipboard %s operations are not supported on this platform", f)
}
