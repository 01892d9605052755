// Package browser hands URLs to the desktop's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// launch starts the platform opener. Replaced in tests.
var launch = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens the specified http(s) URL in the user's default browser.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("browser.Open: refusing %q URL", u.Scheme)
	}
	switch runtime.GOOS {
	case "darwin":
		return launch("open", u.String())
	case "linux", "freebsd", "openbsd":
		return launch("xdg-open", u.String())
	case "windows":
		return launch("rundll32", "url.dll,FileProtocolHandler", u.String())
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// Resolve makes a file reference returned by the API absolute. Backends
// often return media paths relative to the site root.
func Resolve(apiBase, ref string) (string, error) {
	base, err := url.Parse(apiBase)
	if err != nil {
		return "", fmt.Errorf("browser.Resolve: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("browser.Resolve: %w", err)
	}
	return base.ResolveReference(r).String(), nil
}
