//go:build windows

package tui

import "golang.org/x/sys/windows"

// enableVirtualTerminal turns on ANSI escape processing on legacy Windows
// consoles so the differential renderer's SGR/cursor sequences work.
func enableVirtualTerminal() {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil || h == windows.InvalidHandle {
		return
	}
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return
	}
	_ = windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
