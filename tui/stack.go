package tui

import (
	"errors"

	"github.com/lixenwraith/speedtui/render"
)

// ErrStackEmpty reports a pop that would leave the application with no
// screen to draw. The loop treats it as a logic fault in the host.
var ErrStackEmpty = errors.New("tui: cannot pop last screen")

// ScreenStack owns the navigation history. The topmost screen receives
// input and renders; everything below is suspended. Every transition
// invalidates the frame cache so the incoming screen repaints fully.
type ScreenStack struct {
	screens []Screen
	engine  *render.Engine
}

// NewStack creates a stack bound to the engine it invalidates on
// transitions.
func NewStack(engine *render.Engine) *ScreenStack {
	return &ScreenStack{engine: engine}
}

// Push suspends the current top and activates s above it.
func (st *ScreenStack) Push(s Screen) {
	if top := st.Top(); top != nil {
		transition(top, LifecycleSuspended)
	}
	st.screens = append(st.screens, s)
	transition(s, LifecycleActivated)
	st.engine.Invalidate()
}

// Pop destroys the top screen and reactivates the one below. Popping
// the last screen fails with ErrStackEmpty and changes nothing.
func (st *ScreenStack) Pop() error {
	if len(st.screens) <= 1 {
		return ErrStackEmpty
	}
	top := st.screens[len(st.screens)-1]
	st.screens[len(st.screens)-1] = nil
	st.screens = st.screens[:len(st.screens)-1]
	transition(top, LifecycleDestroyed)
	transition(st.Top(), LifecycleActivated)
	st.engine.Invalidate()
	return nil
}

// Replace swaps the top screen for s in one transition: the outgoing
// screen is destroyed without an intermediate activation below it, and
// the cache is invalidated once.
func (st *ScreenStack) Replace(s Screen) {
	if len(st.screens) == 0 {
		st.Push(s)
		return
	}
	top := st.screens[len(st.screens)-1]
	st.screens[len(st.screens)-1] = s
	transition(top, LifecycleDestroyed)
	transition(s, LifecycleActivated)
	st.engine.Invalidate()
}

// Top returns the active screen, or nil when the stack is empty.
func (st *ScreenStack) Top() Screen {
	if len(st.screens) == 0 {
		return nil
	}
	return st.screens[len(st.screens)-1]
}

// Len reports the stack depth.
func (st *ScreenStack) Len() int {
	return len(st.screens)
}
