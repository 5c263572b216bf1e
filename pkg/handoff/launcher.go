// Package handoff passes approved notes to the external note application.
// Delivery is one-way: launchers start the handler and never wait for an answer.
package handoff

import (
	"log"
	"os/exec"
	"runtime"
)

// OSLauncher opens locators with the platform URI handler
type OSLauncher struct {
	goos  string
	start func(name string, args ...string) error
}

// NewOSLauncher makes a launcher for the current platform
func NewOSLauncher() *OSLauncher {
	return &OSLauncher{goos: runtime.GOOS, start: startDetached}
}

// Open starts the platform opener for the locator. Failures are logged only,
// the caller has no way to learn whether the application received the note.
func (l *OSLauncher) Open(locator string) {
	name, args := l.command(locator)
	if name == "" {
		log.Printf("[WARN] no URI opener for %s, locator not delivered", l.goos)
		return
	}
	if err := l.start(name, args...); err != nil {
		log.Printf("[WARN] failed to start %s: %v", name, err)
		return
	}
	log.Printf("[DEBUG] started %s for hand-off", name)
}

func (l *OSLauncher) command(locator string) (name string, args []string) {
	switch l.goos {
	case "darwin":
		return "open", []string{locator}
	case "windows":
		// empty title argument, otherwise start treats a quoted locator as the window title
		return "cmd", []string{"/c", "start", "", locator}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "xdg-open", []string{locator}
	default:
		return "", nil
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...) //nolint:gosec // locator is built by note.BuildLocator
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }() // reap the child
	return nil
}

// LogLauncher only logs the locator, used for headless deployments and dry runs
type LogLauncher struct{}

// Open logs the locator
func (LogLauncher) Open(locator string) {
	log.Printf("[INFO] hand-off locator: %s", locator)
}
