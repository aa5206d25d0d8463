package navigate

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenExternal hands an absolute URL to the desktop browser, performing
// the cross-document navigation for external action URLs.
func OpenExternal(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s in browser: %w", url, err)
	}
	return nil
}
