// Package render implements differential terminal output: positioned content
// fragments are diffed against the last frame's cache so only changed regions
// reach the terminal, as a single buffered write per frame.
package render

import (
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/speedtui/terminal"
)

// Fragment is a contiguous run of printable text anchored at one position.
// Styling is pre-baked into Text as SGR sequences; fragments never wrap.
type Fragment struct {
	Pos  terminal.Position
	Text string
}

// cacheEntry records the last text written at an anchor and its display
// width (visible columns, excluding embedded SGR sequences).
type cacheEntry struct {
	text  string
	width int
}

// Engine accumulates a frame's fragments, diffs them against the previous
// frame, and flushes changed regions as one atomic write.
//
// The frame cache and cursor-visibility state are exclusively owned by the
// engine; all screen output goes through WriteAt between BeginFrame and
// EndFrame. Invariant: every cached entry matches what is physically on the
// terminal at that anchor. Anything that breaks this from outside (screen
// transitions, resizes, theme switches) must call Invalidate.
type Engine struct {
	out io.Writer

	cache map[uint32]cacheEntry
	buf   []byte

	frameOpen bool
	size      terminal.Size

	cursorVisible bool
	// emittedVisibility tracks whether the current policy has reached the
	// terminal, so idle frames with no content emit nothing at all
	emittedVisibility bool

	// clearPending schedules a physical whole-screen erase at the next
	// BeginFrame
	clearPending bool
}

// NewEngine creates an engine writing to out. The cursor starts hidden,
// matching the session's init state.
func NewEngine(out io.Writer) *Engine {
	return &Engine{
		out:   out,
		cache: make(map[uint32]cacheEntry, 256),
		buf:   make([]byte, 0, 8192),
	}
}

func posKey(p terminal.Position) uint32 {
	return uint32(p.Row)<<16 | uint32(p.Col)&0xffff
}

// BeginFrame opens a new output buffer for one frame. The size is sampled
// once here and immutable for the frame.
func (e *Engine) BeginFrame(size terminal.Size) error {
	if e.frameOpen {
		return ErrFrameAlreadyOpen
	}
	e.frameOpen = true
	e.size = size
	e.buf = e.buf[:0]
	if e.clearPending {
		e.clearPending = false
		e.buf = append(e.buf, terminal.ClearScreen()...)
	}
	return nil
}

// WriteAt diffs text against the cached content at pos and appends output
// only when it changed. When the new text is narrower than the cached text,
// the trailing delta columns are blanked first; without this, shrinking a
// fragment leaves stale glyphs on screen.
func (e *Engine) WriteAt(pos terminal.Position, text string) error {
	if !e.frameOpen {
		return ErrNoFrameOpen
	}
	if pos.Col < 0 || pos.Row < 0 || pos.Col >= e.size.Cols || pos.Row >= e.size.Rows {
		return nil // Off-canvas during a resize race; drop
	}

	key := posKey(pos)
	prev, cached := e.cache[key]
	if cached && prev.text == text {
		return nil
	}

	w := VisibleWidth(text)

	if cached && w < prev.width {
		e.buf = terminal.AppendMoveTo(e.buf, terminal.Position{Col: pos.Col + w, Row: pos.Row})
		for i := 0; i < prev.width-w; i++ {
			e.buf = append(e.buf, ' ')
		}
	}

	e.buf = terminal.AppendMoveTo(e.buf, pos)
	e.buf = append(e.buf, text...)

	e.cache[key] = cacheEntry{text: text, width: w}
	return nil
}

// EndFrame closes the frame: parks the cursor at the bottom-right corner,
// emits the cursor-visibility sequence for the current policy, and performs
// exactly one physical write of the accumulated buffer. A frame that wrote
// nothing and has no pending visibility change writes zero bytes.
func (e *Engine) EndFrame() error {
	if !e.frameOpen {
		return ErrNoFrameOpen
	}
	e.frameOpen = false

	if len(e.buf) == 0 && e.emittedVisibility {
		return nil
	}

	e.buf = append(e.buf, terminal.Reset()...)
	e.buf = terminal.AppendMoveTo(e.buf, terminal.Position{
		Col: e.size.Cols - 1,
		Row: e.size.Rows - 1,
	})
	if e.cursorVisible {
		e.buf = append(e.buf, terminal.ShowCursor()...)
	} else {
		e.buf = append(e.buf, terminal.HideCursor()...)
	}
	e.emittedVisibility = true

	if _, err := e.out.Write(e.buf); err != nil {
		return &IOError{Err: err}
	}
	return nil
}

// FrameOpen reports whether a frame is currently open.
func (e *Engine) FrameOpen() bool {
	return e.frameOpen
}

// SetCursorVisible sets the cursor policy applied at the next EndFrame.
func (e *Engine) SetCursorVisible(visible bool) {
	if e.cursorVisible != visible {
		e.cursorVisible = visible
		e.emittedVisibility = false
	}
}

// CursorVisible returns the current cursor policy.
func (e *Engine) CursorVisible() bool {
	return e.cursorVisible
}

// Invalidate clears the whole frame cache so every next WriteAt is treated
// as changed. Mandatory on screen transitions and theme switches.
func (e *Engine) Invalidate() {
	clear(e.cache)
}

// Clear invalidates the cache and additionally schedules a physical
// whole-screen erase at the next BeginFrame. Required on terminal resize:
// invalidation alone cannot remove glyphs at positions no future fragment
// covers.
func (e *Engine) Clear() {
	e.clearPending = true
	clear(e.cache)
}

// ClearPending reports whether a physical erase is scheduled.
func (e *Engine) ClearPending() bool {
	return e.clearPending
}

// InvalidateRect clears cache entries whose anchor lies inside the given
// rectangle. Fragments anchored outside the rectangle but extending into it
// are not reconciled; callers restoring a region must also repaint it.
func (e *Engine) InvalidateRect(x, y, w, h int) {
	for key := range e.cache {
		col := int(key & 0xffff)
		row := int(key >> 16)
		if col >= x && col < x+w && row >= y && row < y+h {
			delete(e.cache, key)
		}
	}
}

// CachedAt returns the cached text at pos, if any. Exposed for tests and
// overlay bookkeeping.
func (e *Engine) CachedAt(pos terminal.Position) (string, bool) {
	entry, ok := e.cache[posKey(pos)]
	return entry.text, ok
}

// VisibleWidth returns the display width of text in terminal columns,
// skipping embedded CSI sequences (colors are pre-baked into fragment text
// and occupy no columns).
func VisibleWidth(text string) int {
	w := 0
	inCSI := false
	sawBracket := false
	for _, r := range text {
		if inCSI {
			if !sawBracket {
				if r == '[' {
					sawBracket = true
					continue
				}
				// Non-CSI escape (ESC c etc.): single-char final
				inCSI = false
				continue
			}
			if r >= 0x40 && r <= 0x7e {
				inCSI = false
				sawBracket = false
			}
			continue
		}
		if r == 0x1b {
			inCSI = true
			sawBracket = false
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}
