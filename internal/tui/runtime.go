package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// RuntimeOption configures a Runtime at construction.
type RuntimeOption func(*Runtime)

// Runtime is the cooperative event loop described in spec §4.1: it polls
// input, feeds each event to the Model, requests a render when state is
// dirty, and guarantees terminal restoration on every exit path.
type Runtime struct {
	m        Model
	renderer Renderer
	input    *inputReader

	out io.Writer
	in  io.Reader

	msgCh          chan Msg
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startOnce      sync.Once
	stopOnce       sync.Once
	altScreen      bool
	msgBuf         int
	resizeInterval time.Duration
	nonInteractive bool

	enableBracketedPaste bool

	logger Logger
}

// SetRenderer sets a custom renderer (useful in tests).
func SetRenderer(r Renderer) RuntimeOption { return func(p *Runtime) { p.renderer = r } }

// ReducedEffectsReporter is implemented by models that want to signal
// latency pressure (spec §4.1 "Latency policing") back to the runtime.
// When Reduced reports true, the runtime disables the renderer's
// line-diff and suspends any background preload commands the model
// scheduled via Command, per the same section.
type ReducedEffectsReporter interface {
	Reduced() bool
}

// applyReducedEffects toggles the renderer's diff mode to match the
// model's current reduced-effects signal, if it reports one.
func (p *Runtime) applyReducedEffects() {
	re, ok := p.m.(ReducedEffectsReporter)
	if !ok {
		return
	}
	p.renderer.SetDiff(!re.Reduced())
}

// EnableAltScreen switches to the terminal alternate screen while the loop runs.
func EnableAltScreen() RuntimeOption { return func(p *Runtime) { p.altScreen = true } }

// SetMsgBuffer sets the size of the internal message buffer (default 64).
func SetMsgBuffer(n int) RuntimeOption {
	return func(p *Runtime) {
		if n > 0 {
			p.msgBuf = n
		}
	}
}

// WithOut sets the output writer (default os.Stdout).
func WithOut(w io.Writer) RuntimeOption { return func(p *Runtime) { p.out = w } }

// WithIn sets the input reader (default os.Stdin).
func WithIn(r io.Reader) RuntimeOption { return func(p *Runtime) { p.in = r } }

// WithResizeInterval sets the polling interval for terminal size (default 150ms).
func WithResizeInterval(d time.Duration) RuntimeOption {
	return func(p *Runtime) {
		if d > 0 {
			p.resizeInterval = d
		}
	}
}

// WithNonInteractive forces non-interactive mode (no raw mode, no input loop).
func WithNonInteractive() RuntimeOption { return func(p *Runtime) { p.nonInteractive = true } }

// WithLogger sets a custom logger (defaults to std logger on stderr).
func WithLogger(l Logger) RuntimeOption { return func(p *Runtime) { p.logger = l } }

// WithBracketedPaste enables bracketed paste (ESC[200~ .. ESC[201~]).
func WithBracketedPaste() RuntimeOption { return func(p *Runtime) { p.enableBracketedPaste = true } }

// NewRuntime creates a runtime for a given Model.
func NewRuntime(m Model, opts ...RuntimeOption) *Runtime {
	return NewRuntimeWithContext(context.Background(), m, opts...)
}

// NewRuntimeWithContext creates a runtime bound to the provided context.
func NewRuntimeWithContext(ctx context.Context, m Model, opts ...RuntimeOption) *Runtime {
	if ctx == nil {
		ctx = context.Background()
	}
	cctx, cancel := context.WithCancel(ctx)

	p := &Runtime{
		m:              m,
		out:            os.Stdout,
		in:             os.Stdin,
		msgBuf:         64,
		ctx:            cctx,
		cancel:         cancel,
		resizeInterval: 150 * time.Millisecond,
		logger:         newStdLogger(os.Stderr),
	}
	for _, o := range opts {
		o(p)
	}

	if p.renderer == nil {
		p.renderer = newANSIRenderer(p.out)
	}
	p.input = newInputReader(p.in)

	p.msgCh = make(chan Msg, p.msgBuf)
	return p
}

// Run starts the runtime and blocks until completion or error. On every
// return path — including a recovered panic — the terminal is restored:
// raw mode is left, the cursor is shown, and the alt-screen (if entered)
// is exited. This is the guarantee spec §4.1 "run" requires.
func (p *Runtime) Run() (runErr error) {
	p.startOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Errorf("panic: %v", r)
				p.stopOnce.Do(func() {
					p.cancel()
					p.wg.Wait()
					p.renderer.Close()
					p.input.restore()
				})
				runErr = fmt.Errorf("panic: %v", r)
			}
		}()

		isTTY := func(w io.Writer) bool {
			if f, ok := w.(*os.File); ok {
				return term.IsTerminal(int(f.Fd()))
			}
			return false
		}
		autoNonInteractive := !isTTY(p.out)
		effectiveNonInteractive := p.nonInteractive || autoNonInteractive

		if effectiveNonInteractive {
			cmd := p.m.Init()
			_ = cmd
			view := p.m.View()
			fmt.Fprintln(p.out, StripANSI(view))
			return
		}

		if err := p.input.raw(); err != nil {
			runErr = fmt.Errorf("raw mode: %w", err)
			return
		}
		defer p.input.restore()

		if p.altScreen {
			fmt.Fprint(p.out, "\x1b[?1049h")
			defer fmt.Fprint(p.out, "\x1b[?1049l")
		}

		if p.enableBracketedPaste {
			fmt.Fprint(p.out, "\x1b[?2004h")
			defer fmt.Fprint(p.out, "\x1b[?2004l")
		}

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.input.readKeys(p.ctx, p.msgCh)
		}()

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.watchSize(p.ctx, p.msgCh)
		}()

		sigCh := make(chan os.Signal, 2)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		cmd := p.m.Init()
		p.renderer.Clear()
		p.applyReducedEffects()
		p.renderer.Render(p.m.View())
		if cmd != nil {
			go func(c Command) { p.msgCh <- c() }(cmd)
		}

	loop:
		for {
			select {
			case <-p.ctx.Done():
				break loop

			case s := <-sigCh:
				p.logger.Infof("signal: %v", s)
				p.msgCh <- QuitEvent{}

			case msg := <-p.msgCh:
				if msg == nil {
					continue
				}
				newModel, cmd := p.m.Update(msg)
				p.m = newModel
				p.applyReducedEffects()
				p.renderer.Render(p.m.View())
				if cmd != nil {
					go func(c Command) { p.msgCh <- c() }(cmd)
				}
				if _, ok := msg.(QuitEvent); ok {
					break loop
				}
			}
		}

		p.stopOnce.Do(func() {
			p.cancel()
			p.renderer.Close()
			p.input.restore()

			done := make(chan struct{})
			go func() { p.wg.Wait(); close(done) }()
			select {
			case <-done:
			case <-time.After(200 * time.Millisecond):
			}
		})
	})
	return runErr
}

// Send injects a message from outside the loop (background preload jobs,
// tests).
func (p *Runtime) Send(msg Msg) {
	select {
	case p.msgCh <- msg:
	default:
	}
}

// Quit requests a graceful shutdown.
func (p *Runtime) Quit() { p.Send(QuitEvent{}) }

// watchSize polls terminal size and emits a ResizeEvent on change.
func (p *Runtime) watchSize(ctx context.Context, out chan<- Msg) {
	fd := func(w io.Writer) int {
		if f, ok := w.(*os.File); ok {
			return int(f.Fd())
		}
		return int(os.Stdout.Fd())
	}(p.out)

	lastW, lastH := 0, 0
	if w, h, err := term.GetSize(fd); err == nil {
		lastW, lastH = w, h
		out <- ResizeEvent{Width: w, Height: h}
	}
	ticker := time.NewTicker(p.resizeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w, h, err := term.GetSize(fd); err == nil {
				if w != lastW || h != lastH {
					lastW, lastH = w, h
					out <- ResizeEvent{Width: w, Height: h}
				}
			}
		}
	}
}
