package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/speedtui/render"
	"github.com/lixenwraith/speedtui/terminal"
)

const (
	defaultPollInterval = 50 * time.Millisecond
	statusTTL           = 4 * time.Second
)

// Options configures an App. Zero values get sane defaults.
type Options struct {
	// PollInterval bounds the event wait so idle terminals still get
	// periodic (zero-byte) frames and resize handling stays prompt.
	PollInterval time.Duration

	// MinCols and MinRows override the layout minimum.
	MinCols int
	MinRows int

	// Logger receives loop diagnostics. Nil discards them.
	Logger *slog.Logger
}

// App owns the run loop: it polls the session for events, routes input
// to the top screen, applies navigation intents, and drives one engine
// frame per iteration.
type App struct {
	session *terminal.Session
	engine  *render.Engine
	stack   *ScreenStack
	themes  *ThemeManager
	layout  *Layout
	logger  *slog.Logger

	pollInterval time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once

	// invalidate is a cross-goroutine invalidation request (theme watcher,
	// future background sources). The loop applies it at the next frame;
	// the engine's cache itself is touched only on the loop goroutine.
	invalidate atomic.Bool

	statusMsg      string
	statusDeadline time.Time
}

// NewApp wires a session to a fresh engine, stack, and theme manager.
// The session must not be initialized yet; Run does that.
func NewApp(session *terminal.Session, opts Options) *App {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := render.NewEngine(session.Writer())
	themes := NewThemeManager(session.ColorMode())

	layout := NewLayout()
	if opts.MinCols > 0 && opts.MinRows > 0 {
		layout.SetMinimum(opts.MinCols, opts.MinRows)
	}

	a := &App{
		session:      session,
		engine:       engine,
		stack:        NewStack(engine),
		themes:       themes,
		layout:       layout,
		logger:       opts.Logger,
		pollInterval: opts.PollInterval,
		stopCh:       make(chan struct{}),
	}
	// Theme switches may come from the watcher goroutine; only request the
	// invalidation here and clear the cache on the loop goroutine
	themes.OnInvalidate(func() { a.invalidate.Store(true) })
	return a
}

// applyPendingInvalidate drains a cross-goroutine invalidation request.
// Runs on the loop goroutine only.
func (a *App) applyPendingInvalidate() {
	if a.invalidate.Swap(false) {
		a.engine.Invalidate()
	}
}

// Engine exposes the render engine for cache inspection and targeted
// invalidation.
func (a *App) Engine() *render.Engine { return a.engine }

// Themes exposes the theme manager.
func (a *App) Themes() *ThemeManager { return a.themes }

// Layout exposes the layout manager for screens that resolve named
// regions.
func (a *App) Layout() *Layout { return a.layout }

// Stack exposes the screen stack.
func (a *App) Stack() *ScreenStack { return a.stack }

// SetStatus shows msg in the status row for a few seconds.
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusDeadline = time.Now().Add(statusTTL)
}

// Stop requests an orderly shutdown. Safe to call from any goroutine,
// any number of times.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
}

// Run initializes the terminal, pushes root, and loops until a quit
// intent, a signal, or a fatal error. The terminal is always restored
// on the way out, including on panic.
func (a *App) Run(root Screen) (err error) {
	if err := a.session.Init(); err != nil {
		return fmt.Errorf("tui: session init: %w", err)
	}
	defer a.session.Fini()

	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stderr)
			panic(r)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	// Quit-intent and error returns must also release the signal goroutine
	defer a.Stop()
	go func() {
		select {
		case sig := <-sigCh:
			a.logger.Info("signal received", "signal", sig.String())
			a.Stop()
		case <-a.stopCh:
		}
	}()

	a.stack.Push(root)
	a.logger.Info("loop started", "screen", root.ID())

	for {
		select {
		case <-a.stopCh:
			return nil
		default:
		}

		ev, ok := a.session.PollEvent(a.pollInterval)
		if ok {
			if done, err := a.handleEvent(ev); done || err != nil {
				return err
			}
		}

		if err := a.renderFrame(); err != nil {
			return err
		}
	}
}

// handleEvent routes one event. done=true means an orderly quit.
func (a *App) handleEvent(ev terminal.Event) (done bool, err error) {
	switch ev.Type {
	case terminal.EventResize:
		// Cache entries describe a canvas that no longer exists, and glyphs
		// outside the next frame's coverage must be physically erased
		a.engine.Clear()
		a.logger.Debug("resize", "cols", ev.Width, "rows", ev.Height)
		return false, nil

	case terminal.EventError:
		a.logger.Error("input error", "err", ev.Err)
		a.SetStatus("input error: " + ev.Err.Error())
		return false, nil

	case terminal.EventClosed:
		return true, nil

	case terminal.EventKey:
		top := a.stack.Top()
		if top == nil {
			return false, nil
		}
		intent := a.dispatchInput(top, ev)
		return a.applyIntent(intent)
	}
	return false, nil
}

// dispatchInput confines screen panics to a status message so one bad
// handler cannot take the terminal down.
func (a *App) dispatchInput(s Screen, ev terminal.Event) (intent NavigationIntent) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("screen input panic", "screen", s.ID(), "panic", r)
			a.SetStatus(fmt.Sprintf("screen error: %v", r))
			intent = NavigationIntent{}
		}
	}()
	return s.HandleInput(ev)
}

func (a *App) applyIntent(intent NavigationIntent) (done bool, err error) {
	switch intent.Kind {
	case IntentNone:
		return false, nil
	case IntentPush:
		if intent.Target == nil {
			return false, nil
		}
		a.logger.Info("push", "screen", intent.Target.ID())
		a.stack.Push(intent.Target)
	case IntentPop:
		if err := a.stack.Pop(); err != nil {
			// Popping the last screen is a host logic fault
			return false, err
		}
		a.logger.Info("pop", "screen", a.stack.Top().ID())
	case IntentReplace:
		if intent.Target == nil {
			return false, nil
		}
		a.logger.Info("replace", "screen", intent.Target.ID())
		a.stack.Replace(intent.Target)
	case IntentQuit:
		a.logger.Info("quit requested")
		return true, nil
	}
	return false, nil
}

// renderFrame draws one complete frame: overlay restore, screen
// content, status row. Unchanged content costs zero bytes.
func (a *App) renderFrame() error {
	a.applyPendingInvalidate()
	size := a.session.Size()

	if _, err := a.layout.Resolve(size); err != nil {
		var tooSmall *TooSmallError
		if errors.As(err, &tooSmall) {
			return a.renderTooSmall(size, tooSmall)
		}
		return err
	}

	top := a.stack.Top()
	if top == nil {
		return ErrStackEmpty
	}

	if err := a.engine.BeginFrame(size); err != nil {
		return err
	}

	// Status row belongs to the loop, not the screen
	area := Rect{X: 0, Y: 0, W: size.Cols, H: size.Rows - 1}

	if owner, ok := any(top).(OverlayOwner); ok {
		if rect, need := owner.takeRestore(); need {
			a.restoreRect(rect)
		}
	}

	for _, frag := range a.renderScreen(top, area) {
		if err := a.engine.WriteAt(frag.Pos, frag.Text); err != nil {
			return err
		}
	}

	a.renderStatus(size)

	if err := a.engine.EndFrame(); err != nil {
		terminal.EmergencyReset(os.Stderr)
		return err
	}
	return nil
}

// renderScreen confines render panics the same way input is confined.
func (a *App) renderScreen(s Screen, area Rect) (frags []render.Fragment) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("screen render panic", "screen", s.ID(), "panic", r)
			a.SetStatus(fmt.Sprintf("screen error: %v", r))
			frags = nil
		}
	}()
	return s.Render(area)
}

// restoreRect blanks the dismissed overlay's rectangle and drops its
// cache entries, so the screen's own fragments repaint just that area.
func (a *App) restoreRect(rect Rect) {
	a.engine.InvalidateRect(rect.X, rect.Y, rect.W, rect.H)
	blank := strings.Repeat(" ", rect.W)
	for row := rect.Y; row < rect.Y+rect.H; row++ {
		_ = a.engine.WriteAt(terminal.Position{Col: rect.X, Row: row}, blank)
	}
}

func (a *App) renderStatus(size terminal.Size) {
	msg := a.statusMsg
	if msg != "" && time.Now().After(a.statusDeadline) {
		a.statusMsg = ""
		msg = ""
	}
	row := size.Rows - 1
	line := a.themes.StyleOn(RoleStatusFg, RoleStatusBg, PadRight(" "+msg, size.Cols))
	_ = a.engine.WriteAt(terminal.Position{Col: 0, Row: row}, line)
}

// renderTooSmall paints a centered notice instead of the screen until
// the terminal grows back past the minimum.
func (a *App) renderTooSmall(size terminal.Size, ts *TooSmallError) error {
	if err := a.engine.BeginFrame(size); err != nil {
		return err
	}

	msg := fmt.Sprintf("terminal too small: %dx%d, need %dx%d",
		ts.Cols, ts.Rows, ts.MinCols, ts.MinRows)
	if len(msg) > size.Cols {
		msg = msg[:size.Cols]
	}
	pos := terminal.Position{
		Col: (size.Cols - len(msg)) / 2,
		Row: size.Rows / 2,
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	_ = a.engine.WriteAt(pos, a.themes.Style(RoleWarning, msg))

	if err := a.engine.EndFrame(); err != nil {
		terminal.EmergencyReset(os.Stderr)
		return err
	}
	return nil
}
