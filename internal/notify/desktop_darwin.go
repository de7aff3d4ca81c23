//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// desktopNotify uses Notification Center through osascript.
func desktopNotify(title, body, _ string) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
