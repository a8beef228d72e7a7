package tui

// Overlay marks a rectangle of a screen as an ephemeral surface: a menu
// or prompt drawn over the normal content. Dismissing it restores
// exactly the covered rectangle instead of forcing a full repaint.
//
// Embed Overlay in a screen, call Show when opening the surface, and
// Dismiss when closing it; the loop handles the targeted restore.
type Overlay struct {
	rect        Rect
	active      bool
	restore     Rect
	needRestore bool
}

// Show marks the overlay active over rect. Showing while already active
// just moves the rectangle.
func (o *Overlay) Show(rect Rect) {
	if o.active && o.rect != rect {
		// Moving leaves the old rectangle stale too
		o.restore = o.rect
		o.needRestore = true
	}
	o.rect = rect
	o.active = true
}

// Dismiss deactivates the overlay and schedules the covered rectangle
// for restoration on the next frame.
func (o *Overlay) Dismiss() {
	if !o.active {
		return
	}
	o.active = false
	o.restore = o.rect
	o.needRestore = true
}

// Active reports whether the overlay is currently shown.
func (o *Overlay) Active() bool { return o.active }

// Rect returns the covered rectangle.
func (o *Overlay) Rect() Rect { return o.rect }

// takeRestore returns the rectangle needing restoration, once.
func (o *Overlay) takeRestore() (Rect, bool) {
	if !o.needRestore {
		return Rect{}, false
	}
	o.needRestore = false
	return o.restore, true
}

// OverlayOwner is implemented by screens that embed Overlay. The loop
// uses it to perform targeted restores after a dismissal.
type OverlayOwner interface {
	takeRestore() (Rect, bool)
}
