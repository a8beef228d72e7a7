package render

import (
	"errors"
	"fmt"
)

// Frame protocol violations are programming errors, never retried.
var (
	// ErrFrameAlreadyOpen is returned by BeginFrame while a frame is open.
	ErrFrameAlreadyOpen = errors.New("render: BeginFrame called while a frame is open")

	// ErrNoFrameOpen is returned by WriteAt/EndFrame outside a frame.
	ErrNoFrameOpen = errors.New("render: no frame open")
)

// IOError wraps a failed physical terminal write (e.g. detached tty).
// The application loop restores the terminal and terminates; no retry.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("render: terminal write failed: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
