package tui

import "time"

// MsgIface is any message delivered to Update.
type MsgIface interface{}

// ---------- Keys ----------

type KeyKind int

const (
	KeyKindUnknown KeyKind = iota
	KeyKindRune
	KeyKindEnter
	KeyKindBackspace
	KeyKindEsc
	KeyKindCtrlC
	KeyKindUp
	KeyKindDown
	KeyKindLeft
	KeyKindRight
	KeyKindTab
	KeyKindSpace
	KeyKindDelete
	KeyKindHome
	KeyKindEnd
	KeyKindPgUp
	KeyKindPgDn
	KeyKindQ
)

type KeyEvent struct {
	Type   KeyKind
	Rune   rune
	String string
	Alt    bool
	Ctrl   bool
}

// ---------- Time / Quit / Resize ----------

type TickEvent struct{ At time.Time }

type QuitEvent struct{}

type ResizeEvent struct {
	Width, Height int
}

// ---------- Bracketed Paste ----------

// PasteEvent carries a bulk-pasted payload. The session engine treats a
// paste the same as a terminal escape write: logged, never forwarded as
// typed characters, since spec §4.1 only admits verbatim single-character
// input to the keystroke path.
type PasteEvent struct {
	Text string
}
