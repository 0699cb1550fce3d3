package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener implements ports.URLOpener with the platform's URL handler
type Opener struct {
	goos string
	run  func(*exec.Cmd) error
}

// NewOpener creates an opener for the current platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run:  (*exec.Cmd).Start,
	}
}

// OpenURL opens an http(s) URL in the default browser
func (o *Opener) OpenURL(rawURL string) error {
	cmd, err := o.Command(rawURL)
	if err != nil {
		return err
	}
	if err := o.run(cmd); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// Command builds the platform command that opens rawURL
func (o *Opener) Command(rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	switch o.goos {
	case "darwin":
		return exec.Command("open", u.String()), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", u.String()), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", u.String()), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
