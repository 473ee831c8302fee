// Package display shows a rendered chart to the user once it is saved.
// Nothing here is allowed to turn a successful render into a failure:
// callers log the returned errors and carry on.
package display

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/browser"
)

// ErrNoDisplay indicates there is no graphical session to show the chart in.
var ErrNoDisplay = errors.New("no display surface available")

// DisplayError is returned when the chart could not be shown.
type DisplayError struct {
	Path string
	Err  error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("cannot display %q: %v", e.Path, e.Err)
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

// HasDisplaySurface reports whether a graphical session is likely available.
// Desktop platforms always have one; X11/Wayland systems need DISPLAY or
// WAYLAND_DISPLAY.
func HasDisplaySurface(goos string, getenv func(string) string) bool {
	switch goos {
	case "windows", "darwin":
		return true
	case "js", "wasip1", "ios", "android":
		return false
	}
	return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
}

// Viewer opens image files in the platform's default viewer.
type Viewer struct {
	Open   func(path string) error
	GOOS   string
	Getenv func(string) string
}

// NewViewer returns a Viewer backed by the OS file opener.
func NewViewer() *Viewer {
	return &Viewer{
		Open:   browser.OpenFile,
		GOOS:   runtime.GOOS,
		Getenv: os.Getenv,
	}
}

// Show opens path, or returns a *DisplayError wrapping ErrNoDisplay when
// running headless.
func (v *Viewer) Show(path string) error {
	if !HasDisplaySurface(v.GOOS, v.Getenv) {
		return &DisplayError{Path: path, Err: ErrNoDisplay}
	}
	if err := v.Open(path); err != nil {
		return &DisplayError{Path: path, Err: err}
	}
	return nil
}
