package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Renderer paints a Model's View to the terminal. The event loop's
// "coalesced render" contract (spec §4.1) relies on Render being cheap
// to call repeatedly: identical frames are short-circuited, and frames
// that do change are diffed line by line rather than fully repainted.
type Renderer interface {
	Clear()
	Render(s string)
	Close()
	SetDiff(enabled bool)
}

type RendererOption func(*ansiRenderer)

// WithDiff toggles line-diff rendering (default: enabled). Reduced-effect
// mode (spec §4.1 "latency policing") disables this to collapse repaints
// into a single full write when the loop is under latency pressure.
func WithDiff(enabled bool) RendererOption { return func(r *ansiRenderer) { r.useDiff = enabled } }

// WithColorProfile forces a specific color profile (overrides auto-detection).
func WithColorProfile(p ColorProfile) RendererOption { return func(r *ansiRenderer) { r.profile = p } }

// NewRenderer builds an ANSI renderer with options.
func NewRenderer(out io.Writer, opts ...RendererOption) Renderer {
	r := &ansiRenderer{
		out:     out,
		useDiff: true,
		profile: ColorAuto,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type ansiRenderer struct {
	out     io.Writer
	mu      sync.Mutex
	last    string
	lines   []string
	cleared bool
	useDiff bool

	profile ColorProfile
}

func newANSIRenderer(out io.Writer) *ansiRenderer {
	return &ansiRenderer{
		out:     out,
		useDiff: true,
		profile: ColorAuto,
	}
}

func (r *ansiRenderer) ensureColorProfile() {
	if r.profile != ColorAuto {
		return
	}
	r.profile = detectColorProfile(r.out)
}

func (r *ansiRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureColorProfile()

	fmt.Fprint(r.out, "\x1b[?25l\x1b[2J\x1b[H")
	r.cleared = true
	r.last = ""
	r.lines = nil
}

func (r *ansiRenderer) Render(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cleared {
		r.clearLocked()
	}

	r.ensureColorProfile()
	view := normalizeNewlines(s)
	if r.profile == ColorNone {
		view = StripANSI(view)
	}

	if view == r.last {
		return
	}

	if !r.useDiff || len(r.lines) == 0 {
		fmt.Fprint(r.out, "\x1b[H")
		fmt.Fprint(r.out, view)
		fmt.Fprint(r.out, "\x1b[0J")
		r.last = view
		r.lines = splitKeep(view)
		return
	}

	newLines := splitKeep(view)
	max := len(newLines)
	if len(r.lines) > max {
		max = len(r.lines)
	}

	for i := 0; i < max; i++ {
		var oldLine, newLine string
		if i < len(r.lines) {
			oldLine = r.lines[i]
		}
		if i < len(newLines) {
			newLine = newLines[i]
		}

		if i >= len(newLines) {
			moveCursor(r.out, i+1, 1)
			fmt.Fprint(r.out, "\x1b[2K")
			continue
		}

		if oldLine != newLine {
			moveCursor(r.out, i+1, 1)
			fmt.Fprint(r.out, newLine)
			fmt.Fprint(r.out, "\x1b[0K")
		}
	}

	r.last = view
	r.lines = newLines
}

// SetDiff switches line-diff rendering on or off at runtime. The event
// loop calls this once per tick with the model's reduced-effects signal
// (spec §4.1 "Latency policing"): disabled, Render falls back to a
// single full-frame write instead of a per-line diff, collapsing what
// would otherwise be several adjacent small writes into one.
func (r *ansiRenderer) SetDiff(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.useDiff = enabled
}

func (r *ansiRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, "\x1b[?25h")
}

func (r *ansiRenderer) clearLocked() {
	r.ensureColorProfile()
	fmt.Fprint(r.out, "\x1b[?25l\x1b[2J\x1b[H")
	r.cleared = true
	r.last = ""
	r.lines = nil
}

// normalizeNewlines turns \r\n and \r into \n for stable diffs.
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

func splitKeep(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func moveCursor(w io.Writer, row, col int) {
	fmt.Fprintf(w, "\x1b[%d;%dH", row, col)
}

// detectColorProfile honors NO_COLOR, checks TTY-ness, then COLORTERM/TERM
// to choose a truecolor/256/16-color profile.
func detectColorProfile(out io.Writer) ColorProfile {
	if v := strings.TrimSpace(os.Getenv("NO_COLOR")); v != "" {
		return ColorNone
	}

	if f, ok := out.(*os.File); ok {
		if !term.IsTerminal(int(f.Fd())) {
			return ColorNone
		}
	}

	if strings.Contains(strings.ToLower(os.Getenv("COLORTERM")), "truecolor") {
		return ColorTrueColor
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "256color") {
		return ColorANSI256
	}
	return ColorANSI16
}
