package terminal

import "errors"

// ErrNonInteractive is returned by Session.Init when stdin cannot support
// raw key reads (redirected input, pipes). This is a startup configuration
// failure, not a degraded mode.
var ErrNonInteractive = errors.New("terminal: input is not an interactive terminal")

// Backend abstracts platform terminal access
type Backend interface {
	// Init enters raw mode. Returns ErrNonInteractive for non-tty input.
	Init() error

	// Fini restores the previous terminal mode
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// Write writes raw bytes to the terminal
	Write(p []byte) (int, error)

	// Read blocks for input with a bounded poll so stopCh can be observed.
	// Returns (nil, nil) on timeout with stop requested, or empty data on
	// poll timeout.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback invoked on terminal resize
	SetResizeHandler(handler func(width, height int))
}
