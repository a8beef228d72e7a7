package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the terminal cell width of s. Wide CJK runes
// count as two cells.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to at most width cells, appending "…" when cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// TruncatePlain cuts s to at most width cells with no ellipsis.
func TruncatePlain(s string, width int) string {
	return runewidth.Truncate(s, width, "")
}

// TruncateMiddle keeps the head and tail of s, replacing the middle with
// "…". Useful for paths where both ends matter.
func TruncateMiddle(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return runewidth.Truncate(s, width, "")
	}
	head := (width - 1) / 2
	tail := width - 1 - head
	return runewidth.Truncate(s, head, "") + "…" + runewidth.TruncateLeft(s, runewidth.StringWidth(s)-tail, "")
}

// PadRight extends s with spaces to exactly width cells, truncating
// first if it is too long. The result always occupies width cells,
// which keeps region-filling writes self-cleaning.
func PadRight(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s in width cells.
func PadLeft(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "")
	}
	return runewidth.FillLeft(s, width)
}

// Center places s in the middle of width cells, padding both sides.
func Center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	left := (width - w) / 2
	right := width - w - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// Wrap breaks s into lines of at most width cells, splitting on spaces
// where possible. Words wider than width are cut mid-word.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		var line strings.Builder
		lineW := 0
		for _, word := range strings.Fields(para) {
			ww := runewidth.StringWidth(word)
			for ww > width {
				// Word cannot fit on any line
				if lineW > 0 {
					lines = append(lines, line.String())
					line.Reset()
					lineW = 0
				}
				head := runewidth.Truncate(word, width, "")
				lines = append(lines, head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
			}
			if ww == 0 {
				continue
			}
			switch {
			case lineW == 0:
				line.WriteString(word)
				lineW = ww
			case lineW+1+ww <= width:
				line.WriteByte(' ')
				line.WriteString(word)
				lineW += 1 + ww
			default:
				lines = append(lines, line.String())
				line.Reset()
				line.WriteString(word)
				lineW = ww
			}
		}
		if lineW > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}
