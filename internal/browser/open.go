// Package browser hands URLs to the desktop environment. The TUI never
// renders web content itself; upgrade and pricing pages open externally.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the default browser for url. The command is started and
// not waited on; failures after Start are the browser's problem.
func Open(url string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "linux":
		name = "xdg-open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return fmt.Errorf("no browser launcher for %s", runtime.GOOS)
	}
	return exec.Command(name, append(args, url)...).Start()
}
