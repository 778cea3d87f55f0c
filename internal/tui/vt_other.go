//go:build !windows

package tui

// enableVirtualTerminal is a no-op outside Windows, where terminals
// already interpret ANSI escapes natively.
func enableVirtualTerminal() {}
