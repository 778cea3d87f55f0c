// Package termio is the small terminal-capability probe cmd/centotype
// runs before starting a tui.Loop: whether stdin/stdout are a TTY, the
// current size, and whether color should be attempted. The interactive
// runtime's own raw-mode lifecycle lives in internal/tui; this package
// answers "should we even try" questions asked before that loop starts.
package termio

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are both attached to a
// terminal. cmd/centotype uses this to fail fast with a usage error
// (spec §6.1 exit code 64) when run non-interactively without an
// explicit override.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Size returns the current terminal dimensions, falling back to a
// conservative 80x24 when the size cannot be determined (piped output,
// redirected stdout).
func Size() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80, 24
	}
	return w, h
}
