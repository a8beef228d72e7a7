package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/speedtui/terminal"
)

// Rect is a rectangular area of the terminal canvas, 0-indexed.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the position lies inside the rectangle.
func (r Rect) Contains(p terminal.Position) bool {
	return p.Col >= r.X && p.Col < r.X+r.W && p.Row >= r.Y && p.Row < r.Y+r.H
}

// Supported terminal floor. Below this, region math produces corrupted
// layouts, so resolution fails instead of clamping.
const (
	DefaultMinCols = 80
	DefaultMinRows = 24
)

// TooSmallError reports a terminal below the supported minimum size.
type TooSmallError struct {
	Cols, Rows       int
	MinCols, MinRows int
}

func (e *TooSmallError) Error() string {
	return fmt.Sprintf("tui: terminal %dx%d below minimum %dx%d",
		e.Cols, e.Rows, e.MinCols, e.MinRows)
}

// RegionSpec names a horizontal band and its height constraint.
//
// Constraint grammar:
//
//	"12"       absolute height in rows
//	"30%"      percentage of the rows still unallocated at this band
//	"FILL"     all rows left over after every other band is resolved
//	"BOTTOM"   the last row
//	"BOTTOM-N" the single row N rows above the last
//	"CENTER"   a centered box of half the terminal width and height
//
// Fixed and percentage bands stack from the top in definition order;
// BOTTOM bands anchor to the bottom edge; FILL resolves last and takes
// the contiguous middle.
type RegionSpec struct {
	Name       string
	Constraint string
}

// Layout resolves named regions from terminal dimensions. Pure and
// stateless with respect to the terminal: regions are recomputed from the
// given size on every call.
type Layout struct {
	minCols int
	minRows int
	specs   []RegionSpec
}

// NewLayout creates a layout with the default 80x24 floor.
func NewLayout(specs ...RegionSpec) *Layout {
	return &Layout{
		minCols: DefaultMinCols,
		minRows: DefaultMinRows,
		specs:   specs,
	}
}

// SetMinimum overrides the terminal size floor.
func (l *Layout) SetMinimum(cols, rows int) {
	l.minCols = cols
	l.minRows = rows
}

// Minimum returns the configured terminal size floor.
func (l *Layout) Minimum() (cols, rows int) {
	return l.minCols, l.minRows
}

// Region resolves one named region against the given terminal size.
func (l *Layout) Region(name string, size terminal.Size) (Rect, error) {
	regions, err := l.Resolve(size)
	if err != nil {
		return Rect{}, err
	}
	r, ok := regions[name]
	if !ok {
		return Rect{}, fmt.Errorf("tui: unknown region %q", name)
	}
	return r, nil
}

// Resolve computes every named region. Deterministic: fixed and percentage
// bands first in definition order, BOTTOM bands against the bottom edge,
// FILL last with whatever rows remain between them.
func (l *Layout) Resolve(size terminal.Size) (map[string]Rect, error) {
	if size.Cols < l.minCols || size.Rows < l.minRows {
		return nil, &TooSmallError{
			Cols: size.Cols, Rows: size.Rows,
			MinCols: l.minCols, MinRows: l.minRows,
		}
	}

	regions := make(map[string]Rect, len(l.specs))

	top := 0
	bottomReserve := 0
	remaining := size.Rows
	var fills []string

	for _, spec := range l.specs {
		c := spec.Constraint
		switch {
		case c == "FILL":
			fills = append(fills, spec.Name)

		case c == "CENTER":
			w := (size.Cols + 1) / 2
			h := (size.Rows + 1) / 2
			regions[spec.Name] = Rect{
				X: (size.Cols - w) / 2,
				Y: (size.Rows - h) / 2,
				W: w,
				H: h,
			}

		case c == "BOTTOM":
			regions[spec.Name] = Rect{X: 0, Y: size.Rows - 1, W: size.Cols, H: 1}
			if bottomReserve < 1 {
				bottomReserve = 1
			}
			remaining--

		case strings.HasPrefix(c, "BOTTOM-"):
			n, err := strconv.Atoi(c[len("BOTTOM-"):])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("tui: bad constraint %q for region %q", c, spec.Name)
			}
			regions[spec.Name] = Rect{X: 0, Y: size.Rows - 1 - n, W: size.Cols, H: 1}
			if bottomReserve < n+1 {
				bottomReserve = n + 1
			}
			remaining--

		case strings.HasSuffix(c, "%"):
			pct, err := strconv.Atoi(c[:len(c)-1])
			if err != nil || pct < 0 || pct > 100 {
				return nil, fmt.Errorf("tui: bad constraint %q for region %q", c, spec.Name)
			}
			h := remaining * pct / 100
			regions[spec.Name] = Rect{X: 0, Y: top, W: size.Cols, H: h}
			top += h
			remaining -= h

		default:
			h, err := strconv.Atoi(c)
			if err != nil || h < 0 {
				return nil, fmt.Errorf("tui: bad constraint %q for region %q", c, spec.Name)
			}
			regions[spec.Name] = Rect{X: 0, Y: top, W: size.Cols, H: h}
			top += h
			remaining -= h
		}
	}

	fillH := size.Rows - top - bottomReserve
	if fillH < 0 {
		fillH = 0
	}
	for _, name := range fills {
		regions[name] = Rect{X: 0, Y: top, W: size.Cols, H: fillH}
	}

	return regions, nil
}
