//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"fmt"
)

func portalScreenshot(context.Context, Options) (string, error) {
	return "", fmt.Errorf("portal screenshot is not supported on this platform")
}
