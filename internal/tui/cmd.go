package tui

import "time"

// Command is an async action that produces a Msg once it completes.
type Command func() Msg

// NilCommand returns no command.
func NilCommand() Command { return nil }

// TickAfter returns a command that emits a TickEvent after d.
func TickAfter(d time.Duration) Command {
	if d <= 0 {
		d = time.Millisecond
	}
	return func() Msg {
		time.Sleep(d)
		return TickEvent{At: time.Now()}
	}
}

// RequestQuit requests a graceful termination.
func RequestQuit() Command { return func() Msg { return QuitEvent{} } }
