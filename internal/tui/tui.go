// Package tui is Centotype's terminal runtime: the message loop, key
// decoder, differential renderer and raw-mode lifecycle that the event
// loop (spec §4.1) is built on. It follows a model-update-view shape so
// the session engine can be expressed as a pure state machine driven by
// messages rather than by direct terminal plumbing.
package tui

type (
	// Loop runs a Model to completion, coordinating input and rendering.
	Loop = Runtime

	Option = RuntimeOption

	// MUV types.
	Model     = ModelIface
	Msg       = MsgIface
	KeyMsg    = KeyEvent
	KeyType   = KeyKind
	TickMsg   = TickEvent
	QuitMsg   = QuitEvent
	ResizeMsg = ResizeEvent
	PasteMsg  = PasteEvent
	Cmd       = Command
)

// Key constants re-exported for callers outside this package.
const (
	KeyUnknown   = KeyKindUnknown
	KeyRune      = KeyKindRune
	KeyEnter     = KeyKindEnter
	KeyBackspace = KeyKindBackspace
	KeyEsc       = KeyKindEsc
	KeyCtrlC     = KeyKindCtrlC
	KeyUp        = KeyKindUp
	KeyDown      = KeyKindDown
	KeyLeft      = KeyKindLeft
	KeyRight     = KeyKindRight
	KeyTab       = KeyKindTab
	KeySpace     = KeyKindSpace
	KeyDelete    = KeyKindDelete
	KeyHome      = KeyKindHome
	KeyEnd       = KeyKindEnd
	KeyPgUp      = KeyKindPgUp
	KeyPgDn      = KeyKindPgDn
)

// NewLoop creates a runtime bound to the given Model.
func NewLoop(m Model, opts ...Option) *Loop { return NewRuntime(m, opts...) }

// Run is a convenience entry point that runs m to completion.
func Run(m Model, opts ...Option) error { return NewRuntime(m, opts...).Run() }

// Re-exported helpers.
var (
	Tick          = TickAfter
	Quit          = RequestQuit
	NoCmd         = NilCommand
	WithRenderer  = SetRenderer
	WithAltScreen = EnableAltScreen
	WithMsgBuffer = SetMsgBuffer
)
