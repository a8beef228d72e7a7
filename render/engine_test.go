package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lixenwraith/speedtui/terminal"
)

var testSize = terminal.Size{Cols: 80, Rows: 24}

func drawFrame(t *testing.T, e *Engine, frags ...Fragment) {
	t.Helper()
	if err := e.BeginFrame(testSize); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	for _, f := range frags {
		if err := e.WriteAt(f.Pos, f.Text); err != nil {
			t.Fatalf("WriteAt(%v): %v", f.Pos, err)
		}
	}
	if err := e.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}

func TestFrameProtocolErrors(t *testing.T) {
	e := NewEngine(&bytes.Buffer{})

	if err := e.WriteAt(terminal.Position{}, "x"); !errors.Is(err, ErrNoFrameOpen) {
		t.Errorf("WriteAt outside frame: got %v, want ErrNoFrameOpen", err)
	}
	if err := e.EndFrame(); !errors.Is(err, ErrNoFrameOpen) {
		t.Errorf("EndFrame outside frame: got %v, want ErrNoFrameOpen", err)
	}

	if err := e.BeginFrame(testSize); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := e.BeginFrame(testSize); !errors.Is(err, ErrFrameAlreadyOpen) {
		t.Errorf("nested BeginFrame: got %v, want ErrFrameAlreadyOpen", err)
	}
	if !e.FrameOpen() {
		t.Error("FrameOpen() = false inside frame")
	}
}

func TestIdenticalFrameEmitsNothing(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	frag := Fragment{Pos: terminal.Position{Col: 2, Row: 1}, Text: "status: ok"}

	drawFrame(t, e, frag)
	if out.Len() == 0 {
		t.Fatal("first frame emitted nothing")
	}

	out.Reset()
	drawFrame(t, e, frag)
	if out.Len() != 0 {
		t.Errorf("identical frame emitted %d bytes: %q", out.Len(), out.Bytes())
	}
}

func TestShrinkBlankFill(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	pos := terminal.Position{Col: 5, Row: 3}

	drawFrame(t, e, Fragment{Pos: pos, Text: "hello world"})
	out.Reset()
	drawFrame(t, e, Fragment{Pos: pos, Text: "hi"})

	// Trailing 9 columns blanked at the delta offset before the new text
	fill := append(terminal.MoveTo(terminal.Position{Col: 7, Row: 3}),
		[]byte(strings.Repeat(" ", 9))...)
	if !bytes.Contains(out.Bytes(), fill) {
		t.Errorf("shrink output missing blank fill %q: %q", fill, out.Bytes())
	}
	want := append(terminal.MoveTo(pos), []byte("hi")...)
	if !bytes.Contains(out.Bytes(), want) {
		t.Errorf("shrink output missing replacement %q: %q", want, out.Bytes())
	}
	if bytes.Index(out.Bytes(), fill) > bytes.Index(out.Bytes(), want) {
		t.Error("blank fill emitted after replacement text")
	}
}

func TestGrowNoBlankFill(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	pos := terminal.Position{Col: 0, Row: 0}

	drawFrame(t, e, Fragment{Pos: pos, Text: "hi"})
	out.Reset()
	drawFrame(t, e, Fragment{Pos: pos, Text: "hello"})

	if bytes.Contains(out.Bytes(), []byte("  ")) {
		t.Errorf("growing write emitted blank fill: %q", out.Bytes())
	}
}

func TestWideRuneBlankFill(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	pos := terminal.Position{Col: 0, Row: 0}

	// Four CJK runes occupy eight columns
	drawFrame(t, e, Fragment{Pos: pos, Text: "日本語字"})
	out.Reset()
	drawFrame(t, e, Fragment{Pos: pos, Text: "ab"})

	fill := append(terminal.MoveTo(terminal.Position{Col: 2, Row: 0}),
		[]byte(strings.Repeat(" ", 6))...)
	if !bytes.Contains(out.Bytes(), fill) {
		t.Errorf("wide-rune shrink missing 6-column fill: %q", out.Bytes())
	}
}

func TestClearErasesCanvasOnNextFrame(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	pos := terminal.Position{Col: 30, Row: 10}

	// Simulates content left behind by a frame the next layout won't cover
	drawFrame(t, e, Fragment{Pos: pos, Text: "terminal too small"})

	e.Clear()
	if !e.ClearPending() {
		t.Fatal("Clear did not schedule an erase")
	}
	if _, ok := e.CachedAt(pos); ok {
		t.Error("Clear left cache entries behind")
	}

	out.Reset()
	drawFrame(t, e, Fragment{Pos: terminal.Position{Col: 0, Row: 0}, Text: "Tasks"})

	if !bytes.HasPrefix(out.Bytes(), terminal.ClearScreen()) {
		t.Errorf("post-resize frame does not start with a screen erase: %q", out.Bytes())
	}
	if !bytes.Contains(out.Bytes(), []byte("Tasks")) {
		t.Errorf("post-resize frame missing content: %q", out.Bytes())
	}
	if e.ClearPending() {
		t.Error("erase still pending after the frame")
	}

	// The erase fires once, not on every following frame
	out.Reset()
	drawFrame(t, e, Fragment{Pos: terminal.Position{Col: 0, Row: 0}, Text: "Tasks"})
	if bytes.Contains(out.Bytes(), terminal.ClearScreen()) {
		t.Errorf("steady frame re-emitted the erase: %q", out.Bytes())
	}
}

// A frame's emitted bytes never exceed a full repaint of the positions it
// touched: unchanged fragments cost nothing, changed ones cost one move
// plus their text, plus the fixed frame trailer.
func TestFrameBytesBoundedByRepaint(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)

	stable1 := Fragment{Pos: terminal.Position{Col: 2, Row: 2}, Text: "[ ] first"}
	stable2 := Fragment{Pos: terminal.Position{Col: 2, Row: 3}, Text: "[x] second"}
	header := Fragment{Pos: terminal.Position{Col: 0, Row: 0}, Text: "old"}

	drawFrame(t, e, header, stable1, stable2)

	changed := Fragment{Pos: header.Pos, Text: "changed"}
	out.Reset()
	drawFrame(t, e, changed, stable1, stable2)

	budget := 0
	for _, f := range []Fragment{changed, stable1, stable2} {
		budget += len(terminal.MoveTo(f.Pos)) + len(f.Text)
	}
	budget += len(terminal.Reset()) +
		len(terminal.MoveTo(terminal.Position{Col: testSize.Cols - 1, Row: testSize.Rows - 1})) +
		len(terminal.HideCursor())

	if out.Len() > budget {
		t.Errorf("frame emitted %d bytes, repaint budget is %d: %q", out.Len(), budget, out.Bytes())
	}
	if !bytes.Contains(out.Bytes(), []byte("changed")) {
		t.Errorf("changed fragment not emitted: %q", out.Bytes())
	}
	if bytes.Contains(out.Bytes(), []byte("second")) {
		t.Errorf("unchanged fragment repainted: %q", out.Bytes())
	}
}

func TestInvalidateForcesRepaint(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	frag := Fragment{Pos: terminal.Position{Col: 1, Row: 1}, Text: "content"}

	drawFrame(t, e, frag)
	e.Invalidate()
	out.Reset()
	drawFrame(t, e, frag)

	if !bytes.Contains(out.Bytes(), []byte("content")) {
		t.Errorf("post-invalidate frame did not repaint: %q", out.Bytes())
	}
}

func TestInvalidateRect(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	inside := Fragment{Pos: terminal.Position{Col: 5, Row: 5}, Text: "in"}
	outside := Fragment{Pos: terminal.Position{Col: 30, Row: 5}, Text: "out"}

	drawFrame(t, e, inside, outside)
	e.InvalidateRect(4, 4, 10, 4)
	out.Reset()
	drawFrame(t, e, inside, outside)

	if !bytes.Contains(out.Bytes(), []byte("in")) {
		t.Errorf("fragment inside rect not repainted: %q", out.Bytes())
	}
	if bytes.Contains(out.Bytes(), []byte("out")) {
		t.Errorf("fragment outside rect repainted: %q", out.Bytes())
	}
}

func TestOffCanvasDropped(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	drawFrame(t, e, Fragment{Pos: terminal.Position{Col: 100, Row: 3}, Text: "x"})

	if _, ok := e.CachedAt(terminal.Position{Col: 100, Row: 3}); ok {
		t.Error("off-canvas write entered the cache")
	}
}

func TestCursorVisibility(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)

	drawFrame(t, e)
	if !bytes.Contains(out.Bytes(), terminal.HideCursor()) {
		t.Errorf("first frame missing hide sequence: %q", out.Bytes())
	}

	out.Reset()
	drawFrame(t, e)
	if out.Len() != 0 {
		t.Errorf("idle frame after visibility settled emitted %d bytes", out.Len())
	}

	e.SetCursorVisible(true)
	out.Reset()
	drawFrame(t, e)
	if !bytes.Contains(out.Bytes(), terminal.ShowCursor()) {
		t.Errorf("visibility change frame missing show sequence: %q", out.Bytes())
	}
}

func TestEndFrameParksCursor(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)
	drawFrame(t, e, Fragment{Pos: terminal.Position{Col: 0, Row: 0}, Text: "x"})

	park := terminal.MoveTo(terminal.Position{Col: 79, Row: 23})
	if !bytes.Contains(out.Bytes(), park) {
		t.Errorf("frame output missing park move %q: %q", park, out.Bytes())
	}
}

type failWriter struct{ err error }

func (w *failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestEndFrameIOError(t *testing.T) {
	cause := errors.New("broken pipe")
	e := NewEngine(&failWriter{err: cause})

	if err := e.BeginFrame(testSize); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := e.WriteAt(terminal.Position{}, "x"); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	err := e.EndFrame()
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("EndFrame: got %v, want *IOError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("IOError does not unwrap to cause: %v", err)
	}
}

// Screen transition scenario: list frame, full invalidation, detail frame,
// invalidation, list again. Every transition repaints; steady frames cost
// nothing.
func TestScreenTransitionScenario(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out)

	list := []Fragment{
		{Pos: terminal.Position{Col: 0, Row: 0}, Text: "Tasks"},
		{Pos: terminal.Position{Col: 2, Row: 2}, Text: "[ ] first"},
		{Pos: terminal.Position{Col: 2, Row: 3}, Text: "[x] second"},
	}
	detail := []Fragment{
		{Pos: terminal.Position{Col: 0, Row: 0}, Text: "Task Detail"},
		{Pos: terminal.Position{Col: 2, Row: 2}, Text: "first"},
	}

	drawFrame(t, e, list...)
	drawFrame(t, e, list...)

	e.Invalidate()
	out.Reset()
	drawFrame(t, e, detail...)
	if !bytes.Contains(out.Bytes(), []byte("Task Detail")) {
		t.Errorf("detail frame not painted: %q", out.Bytes())
	}

	e.Invalidate()
	out.Reset()
	drawFrame(t, e, list...)
	if !bytes.Contains(out.Bytes(), []byte("Tasks")) {
		t.Errorf("return to list not painted: %q", out.Bytes())
	}

	out.Reset()
	drawFrame(t, e, list...)
	if out.Len() != 0 {
		t.Errorf("steady list frame emitted %d bytes", out.Len())
	}
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"\x1b[38;2;1;2;3mhello\x1b[0m", 5},
		{"日本", 4},
		{"\x1b[31m日\x1b[0m", 2},
		{"a\x1b[1mb", 2},
	}
	for _, tt := range tests {
		if got := VisibleWidth(tt.text); got != tt.want {
			t.Errorf("VisibleWidth(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
