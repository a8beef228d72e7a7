package tui

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/speedtui/render"
	"github.com/lixenwraith/speedtui/terminal"
)

// Lifecycle is a screen's position in its managed life.
//
// Created -> Activated <-> Suspended -> Destroyed. Transitions run only
// through the stack; screens observe them via the On* hooks.
type Lifecycle uint8

const (
	LifecycleCreated Lifecycle = iota
	LifecycleActivated
	LifecycleSuspended
	LifecycleDestroyed
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleCreated:
		return "created"
	case LifecycleActivated:
		return "activated"
	case LifecycleSuspended:
		return "suspended"
	case LifecycleDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// IntentKind tags a NavigationIntent variant.
type IntentKind uint8

const (
	IntentNone IntentKind = iota
	IntentPush
	IntentPop
	IntentReplace
	IntentQuit
)

// NavigationIntent is a screen's request for a stack transition,
// returned from HandleInput. The zero value means no transition.
type NavigationIntent struct {
	Kind   IntentKind
	Target Screen
}

// PushIntent requests pushing target above the current screen.
func PushIntent(target Screen) NavigationIntent {
	return NavigationIntent{Kind: IntentPush, Target: target}
}

// PopIntent requests removing the current screen.
func PopIntent() NavigationIntent {
	return NavigationIntent{Kind: IntentPop}
}

// ReplaceIntent requests swapping the current screen for target.
func ReplaceIntent(target Screen) NavigationIntent {
	return NavigationIntent{Kind: IntentReplace, Target: target}
}

// QuitIntent requests an orderly application shutdown.
func QuitIntent() NavigationIntent {
	return NavigationIntent{Kind: IntentQuit}
}

// Screen is a full-terminal view managed by the stack. Implementations
// embed BaseScreen, which supplies identity and lifecycle plumbing.
type Screen interface {
	// ID is a stable identity for logging and lookup.
	ID() string

	// Render produces the complete frame for the content area. The
	// engine diffs it against the previous frame, so returning the
	// same fragments is free.
	Render(area Rect) []render.Fragment

	// HandleInput reacts to one event and optionally requests a
	// stack transition.
	HandleInput(ev terminal.Event) NavigationIntent

	base() *BaseScreen
}

// BaseScreen carries identity and lifecycle state for a screen.
// Embed it and override the On* hooks as needed.
type BaseScreen struct {
	id    string
	state Lifecycle
}

// NewBaseScreen returns a base with a fresh unique identity.
func NewBaseScreen() BaseScreen {
	return BaseScreen{id: uuid.NewString()}
}

func (b *BaseScreen) ID() string { return b.id }

// State reports the current lifecycle state.
func (b *BaseScreen) State() Lifecycle { return b.state }

func (b *BaseScreen) base() *BaseScreen { return b }

// HandleInput ignores everything by default.
func (b *BaseScreen) HandleInput(terminal.Event) NavigationIntent {
	return NavigationIntent{}
}

// OnActivate runs when the screen becomes topmost, both on first push
// and when a screen above it pops away.
func (b *BaseScreen) OnActivate() {}

// OnSuspend runs when another screen is pushed above this one.
func (b *BaseScreen) OnSuspend() {}

// OnDestroy runs once when the screen leaves the stack for good.
func (b *BaseScreen) OnDestroy() {}

// lifecycleHooks is what the stack calls through; BaseScreen satisfies
// it, and embedders override individual hooks.
type lifecycleHooks interface {
	OnActivate()
	OnSuspend()
	OnDestroy()
}

// transition moves a screen to the given state and fires the matching
// hook. Destroyed is terminal; all transitions out of it are dropped.
func transition(s Screen, to Lifecycle) {
	b := s.base()
	if b.state == LifecycleDestroyed {
		return
	}
	b.state = to

	hooks, ok := any(s).(lifecycleHooks)
	if !ok {
		return
	}
	switch to {
	case LifecycleActivated:
		hooks.OnActivate()
	case LifecycleSuspended:
		hooks.OnSuspend()
	case LifecycleDestroyed:
		hooks.OnDestroy()
	}
}
