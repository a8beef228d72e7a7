package terminal

// Position is a terminal cell coordinate, 0-indexed.
// Escape sequences are 1-indexed; the conversion happens only at the wire
// boundary inside the builders below.
type Position struct {
	Col int
	Row int
}

// Size is the terminal dimensions in cells.
type Size struct {
	Cols int
	Rows int
}

// Pre-allocated ANSI sequence fragments (avoid allocations during render).
// Returned slices are shared; callers must not mutate them.
var (
	csi      = []byte("\x1b[")
	seqReset = []byte("\x1b[0m")
	seqClear = []byte("\x1b[2J")
	seqRIS   = []byte("\x1bc") // Reset to Initial State (emergency)

	seqCursorHide = []byte("\x1b[?25l")
	seqCursorShow = []byte("\x1b[?25h")

	seqAltScreenEnter = []byte("\x1b[?1049h")
	seqAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: ?7l disables auto-wrap so a bottom-right write cannot scroll
	seqAutoWrapOn  = []byte("\x1b[?7h")
	seqAutoWrapOff = []byte("\x1b[?7l")

	prefixFgRGB = []byte("\x1b[38;2;")
	prefixBgRGB = []byte("\x1b[48;2;")
	prefixFg256 = []byte("\x1b[38;5;")
	prefixBg256 = []byte("\x1b[48;5;")
)

// appendInt appends a non-negative integer without allocation.
// Optimized for terminal values (0-255 common, 0-999 typical max).
func appendInt(dst []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(dst, byte(n)+'0')
	}
	if n < 100 {
		return append(dst, byte(n/10)+'0', byte(n%10)+'0')
	}
	if n < 1000 {
		return append(dst, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(dst, buf[i:]...)
}

// AppendMoveTo appends CSI row;colH for a 0-indexed position.
func AppendMoveTo(dst []byte, p Position) []byte {
	dst = append(dst, csi...)
	dst = appendInt(dst, p.Row+1)
	dst = append(dst, ';')
	dst = appendInt(dst, p.Col+1)
	return append(dst, 'H')
}

// MoveTo returns the cursor positioning sequence for a 0-indexed position.
func MoveTo(p Position) []byte {
	return AppendMoveTo(make([]byte, 0, 10), p)
}

// AppendForeground appends a truecolor foreground SGR sequence.
func AppendForeground(dst []byte, c RGB) []byte {
	dst = append(dst, prefixFgRGB...)
	dst = appendInt(dst, int(c.R))
	dst = append(dst, ';')
	dst = appendInt(dst, int(c.G))
	dst = append(dst, ';')
	dst = appendInt(dst, int(c.B))
	return append(dst, 'm')
}

// SetForeground returns the truecolor foreground sequence for c.
func SetForeground(c RGB) []byte {
	return AppendForeground(make([]byte, 0, 19), c)
}

// AppendBackground appends a truecolor background SGR sequence.
func AppendBackground(dst []byte, c RGB) []byte {
	dst = append(dst, prefixBgRGB...)
	dst = appendInt(dst, int(c.R))
	dst = append(dst, ';')
	dst = appendInt(dst, int(c.G))
	dst = append(dst, ';')
	dst = appendInt(dst, int(c.B))
	return append(dst, 'm')
}

// SetBackground returns the truecolor background sequence for c.
func SetBackground(c RGB) []byte {
	return AppendBackground(make([]byte, 0, 19), c)
}

// AppendForeground256 appends a 256-palette foreground sequence for the
// nearest palette entry to c.
func AppendForeground256(dst []byte, c RGB) []byte {
	dst = append(dst, prefixFg256...)
	dst = appendInt(dst, int(RGBTo256(c)))
	return append(dst, 'm')
}

// AppendBackground256 appends a 256-palette background sequence.
func AppendBackground256(dst []byte, c RGB) []byte {
	dst = append(dst, prefixBg256...)
	dst = appendInt(dst, int(RGBTo256(c)))
	return append(dst, 'm')
}

// Reset returns the SGR attribute reset sequence.
func Reset() []byte { return seqReset }

// HideCursor returns the cursor hide sequence.
func HideCursor() []byte { return seqCursorHide }

// ShowCursor returns the cursor show sequence.
func ShowCursor() []byte { return seqCursorShow }

// ClearScreen returns the full screen clear sequence.
func ClearScreen() []byte { return seqClear }

// ParseMoveTo parses a CSI row;colH sequence back into a 0-indexed position.
// Inverse of MoveTo; used by round-trip checks, not the render hot path.
func ParseMoveTo(b []byte) (Position, bool) {
	if len(b) < 4 || b[0] != 0x1b || b[1] != '[' || b[len(b)-1] != 'H' {
		return Position{}, false
	}
	row, col := 0, 0
	i := 2
	start := i
	for i < len(b)-1 && b[i] != ';' {
		if b[i] < '0' || b[i] > '9' {
			return Position{}, false
		}
		row = row*10 + int(b[i]-'0')
		i++
	}
	if i == start || i >= len(b)-1 {
		return Position{}, false
	}
	i++ // skip ';'
	start = i
	for i < len(b)-1 {
		if b[i] < '0' || b[i] > '9' {
			return Position{}, false
		}
		col = col*10 + int(b[i]-'0')
		i++
	}
	if i == start {
		return Position{}, false
	}
	if row < 1 || col < 1 {
		return Position{}, false
	}
	return Position{Col: col - 1, Row: row - 1}, true
}
