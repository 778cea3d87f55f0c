package tui

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"unicode"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/centotype/centotype/internal/validate"
)

// inputReader owns raw-mode lifecycle and decodes the incoming byte
// stream into Msg values. Only events whose bytes could escape the
// terminal sandbox (CSI/OSC writes, bracketed paste payloads) pass
// through a dedicated decoder instead of being forwarded as typed
// characters — this is the filtering boundary spec §4.1 "on_input"
// requires ("only events whose semantics would escape the terminal
// sandbox are filtered").
type inputReader struct {
	oldState *term.State
	inFile   *os.File
	reader   io.Reader
}

func newInputReader(r io.Reader) *inputReader {
	var f *os.File
	if rf, ok := r.(*os.File); ok {
		f = rf
	}
	return &inputReader{inFile: f, reader: r}
}

func (i *inputReader) raw() error {
	if i.inFile == nil {
		return nil
	}
	fd := int(i.inFile.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	i.oldState = state
	enableVirtualTerminal()
	return nil
}

func (i *inputReader) restore() {
	if i.oldState != nil && i.inFile != nil {
		_ = term.Restore(int(i.inFile.Fd()), i.oldState)
	}
}

func (i *inputReader) readKeys(ctx context.Context, ch chan<- Msg) {
	r := bufio.NewReader(i.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b, err := r.ReadByte()
			if err != nil {
				return
			}

			switch b {
			case 3:
				ch <- KeyEvent{Type: KeyKindCtrlC, String: "\x03", Ctrl: true}
				continue
			case '\r', '\n':
				ch <- KeyEvent{Type: KeyKindEnter, String: "\r"}
				continue
			case 8, 127:
				ch <- KeyEvent{Type: KeyKindBackspace, String: string(b)}
				continue
			case 9:
				ch <- KeyEvent{Type: KeyKindTab, String: "\t"}
				continue
			case ' ':
				ch <- KeyEvent{Type: KeyKindSpace, Rune: ' ', String: " "}
				continue
			case 27: // ESC: CSI, Alt+key, bracketed paste
				if m := i.readEscape(r); m != nil {
					ch <- m
				}
				continue
			}

			if b < 0x20 || b == 0x7f {
				continue
			}

			buf := []byte{b}
			if !utf8.FullRune(buf) {
				for r.Buffered() > 0 && !utf8.FullRune(buf) {
					nb, _ := r.ReadByte()
					buf = append(buf, nb)
				}
			}
			if ru, _ := utf8.DecodeRune(buf); ru != utf8.RuneError && !unicode.IsControl(ru) {
				ch <- KeyEvent{Type: KeyKindRune, Rune: ru, String: string(ru)}
			}
		}
	}
}

// readEscape decodes sequences after ESC: CSI keys, bracketed paste, or a
// bare Alt+key combination.
func (i *inputReader) readEscape(r *bufio.Reader) Msg {
	if r.Buffered() == 0 {
		return KeyEvent{Type: KeyKindEsc, String: "\x1b"}
	}

	nb, _ := r.ReadByte()
	switch nb {
	case '[':
		if i.peekSeq(r, "200~") {
			_, _ = r.Discard(len("200~"))
			return i.readBracketedPaste(r)
		}
		return i.readCSI(r)
	default:
		buf := []byte{nb}
		for r.Buffered() > 0 && !utf8.FullRune(buf) {
			b, _ := r.ReadByte()
			buf = append(buf, b)
		}
		if ru, _ := utf8.DecodeRune(buf); ru != utf8.RuneError && !unicode.IsControl(ru) {
			return KeyEvent{Type: KeyKindRune, Rune: ru, String: string(ru), Alt: true}
		}
		return KeyEvent{Type: KeyKindEsc, String: "\x1b"}
	}
}

// readCSI parses a limited set of CSI codes (arrows, home/end, pgup/pgdn, delete).
func (i *inputReader) readCSI(r *bufio.Reader) Msg {
	params := []byte{}
	for {
		if r.Buffered() == 0 {
			return KeyEvent{Type: KeyKindEsc, String: "\x1b"}
		}
		b, _ := r.ReadByte()
		switch b {
		case 'A':
			return KeyEvent{Type: KeyKindUp, String: "\x1b[A"}
		case 'B':
			return KeyEvent{Type: KeyKindDown, String: "\x1b[B"}
		case 'C':
			return KeyEvent{Type: KeyKindRight, String: "\x1b[C"}
		case 'D':
			return KeyEvent{Type: KeyKindLeft, String: "\x1b[D"}
		case 'H':
			return KeyEvent{Type: KeyKindHome, String: "\x1b[H"}
		case 'F':
			return KeyEvent{Type: KeyKindEnd, String: "\x1b[F"}
		case '~':
			switch string(params) {
			case "3":
				return KeyEvent{Type: KeyKindDelete, String: "\x1b[3~"}
			case "5":
				return KeyEvent{Type: KeyKindPgUp, String: "\x1b[5~"}
			case "6":
				return KeyEvent{Type: KeyKindPgDn, String: "\x1b[6~"}
			case "2":
				return KeyEvent{Type: KeyKindEsc, String: "\x1b[2~"}
			default:
				return KeyEvent{Type: KeyKindEsc, String: "\x1b[" + string(params) + "~"}
			}
		default:
			if (b >= '0' && b <= '9') || b == ';' {
				params = append(params, b)
				continue
			}
			return KeyEvent{Type: KeyKindEsc, String: "\x1b[" + string(params) + string(b)}
		}
	}
}

// readBracketedPaste reads until ESC[201~ and returns the pasted payload.
// The cap matches the Content Validator's own hard limit (spec §4.5): a
// paste can never produce typed content longer than generated content is
// allowed to be, so there is no reason to buffer past that point.
const maxPaste = validate.HardMaxLength

func (i *inputReader) readBracketedPaste(r *bufio.Reader) Msg {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		if buf.Len() >= maxPaste {
			if b == 27 && i.peekSeq(r, "[201~") {
				_, _ = r.Discard(len("[201~"))
				break
			}
			continue
		}
		if b == 27 {
			if i.peekSeq(r, "[201~") {
				_, _ = r.Discard(len("[201~"))
				break
			}
			buf.WriteByte(b)
			continue
		}
		buf.WriteByte(b)
	}
	return PasteEvent{Text: buf.String()}
}

func (i *inputReader) peekSeq(r *bufio.Reader, s string) bool {
	if r.Buffered() < len(s) {
		return false
	}
	bs, err := r.Peek(len(s))
	return err == nil && string(bs) == s
}
