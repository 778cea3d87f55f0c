// Package engine wires the Session Engine, Scoring, Content Cache and
// terminal runtime together into one tui.Model — the game loop driving
// a single typing session (spec §4.1, §4.2).
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/centotype/centotype/internal/cache"
	"github.com/centotype/centotype/internal/latency"
	"github.com/centotype/centotype/internal/session"
	"github.com/centotype/centotype/internal/termio"
	"github.com/centotype/centotype/internal/tui"
	"github.com/centotype/centotype/internal/types"
)

// reduced-effect thresholds (spec §4.1 "Latency policing").
const (
	latencyTripP99    = 25 * time.Millisecond
	latencyRecoverP99 = 20 * time.Millisecond
)

// tickInterval paces the background tick the runtime uses both to sample
// render/update latency and to refresh background preload (spec §4.1,
// §4.4): frequent enough to catch a latency spike quickly, coarse enough
// not to itself become a source of load.
const tickInterval = 100 * time.Millisecond

// Game is the tui.Model for one session.
type Game struct {
	ctx      context.Context
	cache    *cache.Cache
	logger   tui.Logger
	preload  cache.Strategy
	fp       types.Fingerprint
	category types.Category

	engine *session.Engine
	mode   session.Mode
	level  types.LevelId
	seed   types.Seed

	tickWindow   *latency.Window
	reducedFX    bool
	sustainedLow time.Time

	done   bool
	result *session.SessionResult
}

// NewGame constructs a Game ready to run as a tui.Model. The target text
// is fetched from cache synchronously at construction, matching spec
// §4.1's run() precondition that target text be available before the
// loop starts. category narrows content to one token family for a drill
// session (spec §6.1 "drill --category"); pass types.CategoryNone for
// arcade and endurance.
func NewGame(ctx context.Context, c *cache.Cache, logger tui.Logger, mode session.Mode, level types.LevelId, seed types.Seed, category types.Category, preload cache.Strategy) (*Game, error) {
	fp := types.NewFingerprint(level, seed, category)
	text, err := c.Get(ctx, fp)
	if err != nil {
		return nil, err
	}
	c.SetCurrentLevel(level)
	c.Preload(ctx, fp, preload, 2)

	return &Game{
		ctx:        ctx,
		cache:      c,
		logger:     logger,
		preload:    preload,
		fp:         fp,
		category:   category,
		engine:     session.Start(mode, level, text),
		mode:       mode,
		level:      level,
		seed:       seed,
		tickWindow: latency.NewWindow(256),
	}, nil
}

// DurationExpired is sent into the runtime when a drill/endurance
// session's configured duration elapses (spec §6.1 drill/endurance
// `--duration M`).
type DurationExpired struct{}

// Init satisfies tui.Model: it starts the recurring tick that drives
// latency sampling and background preload refresh (spec §4.1, §4.4).
func (g *Game) Init() tui.Command { return tui.Tick(tickInterval) }

// Update satisfies tui.Model: it folds one input message into the next
// session state, per spec §4.1's on_input keymap.
func (g *Game) Update(msg tui.Msg) (tui.ModelIface, tui.Command) {
	start := time.Now()
	next := tui.NoCmd()

	switch m := msg.(type) {
	case tui.KeyMsg:
		g.handleKey(m, start)
	case tui.PasteMsg:
		// Bracketed paste never reaches the keystroke path (spec §4.1
		// "events whose semantics would escape the terminal sandbox ...
		// are filtered"); a bulk paste is logged, not typed.
		g.logger.Debugf("paste of %d bytes ignored on keystroke path", len(m.Text))
	case tui.ResizeMsg:
		// no-op: the renderer recomputes layout from the next View call.
	case tui.TickMsg:
		g.refreshPreload()
		if !g.done {
			next = tui.Tick(tickInterval)
		}
	case DurationExpired:
		// drill/endurance sessions complete the current target rather
		// than count it as an abort once their duration budget elapses.
		g.engine.ProcessKeystroke(session.Keystroke{Kind: session.KindComplete, At: start})
		g.done = true
	}

	g.observeTick(start)

	if g.done {
		result := g.engine.Finalize()
		g.result = &result
		return g, tui.Quit()
	}
	return g, next
}

// refreshPreload re-issues a background preload pass for the session's
// current fingerprint. It is a no-op while in reduced-effect mode (spec
// §4.1 "suspends background preload tasks") — the only construction-time
// preload call would otherwise never be followed up as the session
// progresses or recovers from latency pressure.
func (g *Game) refreshPreload() {
	if g.reducedFX {
		return
	}
	g.cache.Preload(g.ctx, g.fp, g.preload, 2)
}

func (g *Game) handleKey(m tui.KeyMsg, at time.Time) {
	k, ok := classifyKey(m, g.engine.CurrentState().Status, at)
	if !ok {
		return
	}
	g.engine.ProcessKeystroke(k)

	st := g.engine.CurrentState()
	if st.Status == session.StatusRunning && st.Cursor == len([]rune(st.Target)) {
		// Running->Completed is sticky for one frame so the final state
		// still renders (spec §4.1 "further input ignored for one
		// frame"); the Event Loop, not the Session Engine, decides when
		// the target is fully typed.
		g.engine.ProcessKeystroke(session.Keystroke{Kind: session.KindComplete, At: at})
	}
	if st.Status.Terminal() {
		g.done = true
	}
}

// classifyKey implements spec §4.1's on_input keymap: Ctrl+C->Abort,
// Tab->toggle Pause/Resume, Esc->Abort, Enter after Complete->Complete,
// and plain runes/Backspace forwarded verbatim.
func classifyKey(m tui.KeyMsg, status session.Status, at time.Time) (session.Keystroke, bool) {
	switch {
	case m.Type == tui.KeyKindCtrlC:
		return session.Keystroke{Kind: session.KindAbort, At: at}, true
	case m.Type == tui.KeyKindEsc:
		return session.Keystroke{Kind: session.KindAbort, At: at}, true
	case m.Type == tui.KeyKindTab:
		kind := session.KindPause
		if status == session.StatusPaused {
			kind = session.KindResume
		}
		return session.Keystroke{Kind: kind, At: at}, true
	case m.Type == tui.KeyKindEnter && status == session.StatusCompleted:
		return session.Keystroke{Kind: session.KindComplete, At: at}, true
	case m.Type == tui.KeyKindBackspace:
		return session.Keystroke{Kind: session.KindBackspace, At: at}, true
	case m.Type == tui.KeyKindRune || m.Type == tui.KeyKindSpace:
		c := m.Rune
		if m.Type == tui.KeyKindSpace {
			c = ' '
		}
		return session.Keystroke{Kind: session.KindChar, Char: c, At: at}, true
	default:
		return session.Keystroke{}, false
	}
}

// observeTick records this tick's latency and engages/releases
// reduced-effect mode per spec §4.1's P99 thresholds.
func (g *Game) observeTick(start time.Time) {
	g.tickWindow.Observe(time.Since(start))
	p99 := g.tickWindow.P99()

	if !g.reducedFX && p99 > latencyTripP99 {
		// Reduced-effect mode is read by View (skips optional styling), by
		// refreshPreload (suspends the next background preload pass), and
		// by the runtime's renderer (collapses the render diff) via
		// Reduced() (spec §4.1 "Latency policing").
		g.reducedFX = true
		g.sustainedLow = time.Time{}
		g.logger.Warnf("entering reduced-effect mode, P99=%s", p99)
		return
	}
	if g.reducedFX && p99 < latencyRecoverP99 {
		if g.sustainedLow.IsZero() {
			g.sustainedLow = start
		}
		if start.Sub(g.sustainedLow) > time.Second {
			g.reducedFX = false
			g.logger.Infof("resuming full effects, P99=%s", p99)
		}
	} else {
		g.sustainedLow = time.Time{}
	}
}

// View satisfies tui.Model: renders the live correctness-colored line
// and a status footer.
func (g *Game) View() string {
	st := g.engine.CurrentState()
	var b strings.Builder

	for i, r := range []rune(st.Target) {
		switch {
		case i < st.Cursor && st.Correctness[i]:
			b.WriteString(tui.NewStyle().Fg(tui.ColorGreen).Render(string(r)))
		case i < st.Cursor:
			b.WriteString(tui.NewStyle().Fg(tui.ColorRed).Underlined().Render(string(r)))
		case i == st.Cursor:
			b.WriteString(tui.NewStyle().Reversed().Render(string(r)))
		default:
			if g.reducedFX {
				b.WriteString(string(r))
			} else {
				b.WriteString(tui.NewStyle().Fainted().Render(string(r)))
			}
		}
	}

	fmt.Fprintf(&b, "\n\nlevel %d  |  %s  |  cursor %d/%d", int(g.level), st.Status, st.Cursor, len([]rune(st.Target)))
	if st.Status == session.StatusPaused {
		b.WriteString("  (paused — Tab to resume)")
	}

	if st.Status.Terminal() && g.result != nil {
		// Center the final grade screen in the terminal once the session
		// has a result, instead of leaving it flush to the typing line.
		w, h := termio.Size()
		summary := fmt.Sprintf("session %s\ngrade %s  skill index %d", st.Status, g.result.Grade, g.result.SkillIndex)
		return tui.Center(summary, w, h)
	}
	return b.String()
}

// Reduced reports whether the game is currently in reduced-effect mode
// (spec §4.1 "Latency policing").
func (g *Game) Reduced() bool { return g.reducedFX }

// Result returns the finalized SessionResult once the game loop has
// exited; valid only after Update has returned tui.Quit.
func (g *Game) Result() (session.SessionResult, bool) {
	if g.result == nil {
		return session.SessionResult{}, false
	}
	return *g.result, true
}
