package tui

// ModelIface is implemented by the session engine's view of the world:
// Init schedules any startup command, Update folds a message into the
// next state, View renders the current state as a frame.
type ModelIface interface {
	Init() Command
	Update(Msg) (ModelIface, Command)
	View() string
}
