package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Session owns the terminal lifecycle: raw mode, alternate screen, and
// restoration. All rendered output goes through Writer(); the session itself
// never draws.
type Session struct {
	backend   Backend
	input     *inputReader
	resizeCh  chan Event
	colorMode ColorMode

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// NewSession creates a session with detected color capability unless an
// explicit mode is given.
func NewSession(colorMode ...ColorMode) *Session {
	c := DetectColorMode()
	if len(colorMode) > 0 {
		c = colorMode[0]
	}
	return &Session{
		backend:   newBackend(),
		resizeCh:  make(chan Event, 1),
		colorMode: c,
	}
}

// Init enters raw mode and the alternate screen buffer. Returns
// ErrNonInteractive when stdin cannot support raw key reads.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.backend.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	s.input = newInputReader(s.backend)

	s.backend.SetResizeHandler(func(w, h int) {
		ev := Event{Type: EventResize, Width: w, Height: h}
		// Keep only the latest pending size
		select {
		case s.resizeCh <- ev:
		default:
			select {
			case <-s.resizeCh:
			default:
			}
			select {
			case s.resizeCh <- ev:
			default:
			}
		}
	})

	s.backend.Write(seqAltScreenEnter)
	s.backend.Write(seqCursorHide)
	s.backend.Write(seqAutoWrapOff)
	s.backend.Write(seqClear)

	s.input.start()

	s.initialized = true
	return nil
}

// Fini restores terminal state. Safe to call multiple times; this is the
// non-negotiable cleanup path and must run even on interrupt.
func (s *Session) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return
	}

	if s.input != nil {
		s.input.stop()
	}

	s.backend.Write(seqCursorShow)
	s.backend.Write(seqAltScreenExit)
	// Re-enable auto-wrap after exiting alt screen so the main buffer wraps
	s.backend.Write(seqAutoWrapOn)
	s.backend.Write(seqReset)

	s.backend.Fini()

	s.finalized = true
}

// Size returns current terminal dimensions.
func (s *Session) Size() Size {
	w, h := s.backend.Size()
	return Size{Cols: w, Rows: h}
}

// ColorMode returns the detected color capability.
func (s *Session) ColorMode() ColorMode {
	return s.colorMode
}

// Writer returns the raw terminal writer for the render engine.
func (s *Session) Writer() io.Writer {
	return s.backend
}

// PollEvent waits up to timeout for the next input or resize event.
// Returns ok=false on timeout, which callers use for idle re-render.
func (s *Session) PollEvent(timeout time.Duration) (Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-s.input.events():
		return ev, true
	case ev := <-s.resizeCh:
		return ev, true
	case <-timer.C:
		return Event{}, false
	}
}

// EmergencyReset attempts to restore the terminal to a sane state.
// Call from panic recovery when Fini cannot be reached normally.
func EmergencyReset(w io.Writer) {
	w.Write(seqCursorShow)
	w.Write(seqAltScreenExit)
	w.Write(seqReset)
	w.Write(seqAutoWrapOn)
	w.Write(seqRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
