package tui

import (
	"errors"
	"testing"

	"github.com/lixenwraith/speedtui/terminal"
)

var size80x24 = terminal.Size{Cols: 80, Rows: 24}

func TestResolveTooSmall(t *testing.T) {
	l := NewLayout(RegionSpec{Name: "main", Constraint: "FILL"})

	for _, size := range []terminal.Size{
		{Cols: 79, Rows: 24},
		{Cols: 80, Rows: 23},
		{Cols: 40, Rows: 10},
	} {
		_, err := l.Resolve(size)
		var ts *TooSmallError
		if !errors.As(err, &ts) {
			t.Errorf("Resolve(%+v): got %v, want TooSmallError", size, err)
			continue
		}
		if ts.Cols != size.Cols || ts.Rows != size.Rows {
			t.Errorf("TooSmallError reports %dx%d, want %dx%d", ts.Cols, ts.Rows, size.Cols, size.Rows)
		}
	}

	if _, err := l.Resolve(size80x24); err != nil {
		t.Errorf("Resolve at exact minimum failed: %v", err)
	}
}

func TestResolveFixedAndFill(t *testing.T) {
	l := NewLayout(
		RegionSpec{Name: "header", Constraint: "2"},
		RegionSpec{Name: "main", Constraint: "FILL"},
		RegionSpec{Name: "status", Constraint: "BOTTOM"},
	)
	regions, err := l.Resolve(size80x24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if got := regions["header"]; got != (Rect{X: 0, Y: 0, W: 80, H: 2}) {
		t.Errorf("header = %+v", got)
	}
	if got := regions["main"]; got != (Rect{X: 0, Y: 2, W: 80, H: 21}) {
		t.Errorf("main = %+v", got)
	}
	if got := regions["status"]; got != (Rect{X: 0, Y: 23, W: 80, H: 1}) {
		t.Errorf("status = %+v", got)
	}
}

func TestResolvePercentOfRemaining(t *testing.T) {
	l := NewLayout(
		RegionSpec{Name: "top", Constraint: "4"},
		RegionSpec{Name: "upper", Constraint: "50%"},
		RegionSpec{Name: "rest", Constraint: "FILL"},
	)
	regions, err := l.Resolve(size80x24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// 50% of the 20 rows remaining after the fixed band
	if got := regions["upper"]; got != (Rect{X: 0, Y: 4, W: 80, H: 10}) {
		t.Errorf("upper = %+v", got)
	}
	if got := regions["rest"]; got != (Rect{X: 0, Y: 14, W: 80, H: 10}) {
		t.Errorf("rest = %+v", got)
	}
}

func TestResolveCenter(t *testing.T) {
	l := NewLayout(RegionSpec{Name: "dialog", Constraint: "CENTER"})
	regions, err := l.Resolve(size80x24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	got := regions["dialog"]
	if got.W != 40 || got.H != 12 {
		t.Errorf("dialog size = %dx%d, want 40x12", got.W, got.H)
	}
	if got.X != 20 || got.Y != 6 {
		t.Errorf("dialog origin = (%d,%d), want (20,6)", got.X, got.Y)
	}
}

func TestResolveBottomAnchors(t *testing.T) {
	l := NewLayout(
		RegionSpec{Name: "main", Constraint: "FILL"},
		RegionSpec{Name: "hint", Constraint: "BOTTOM-1"},
		RegionSpec{Name: "status", Constraint: "BOTTOM"},
	)
	regions, err := l.Resolve(size80x24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if got := regions["status"]; got.Y != 23 || got.H != 1 {
		t.Errorf("status = %+v, want row 23", got)
	}
	if got := regions["hint"]; got.Y != 22 || got.H != 1 {
		t.Errorf("hint = %+v, want row 22", got)
	}
	// FILL stops above the deepest bottom anchor
	if got := regions["main"]; got.Y != 0 || got.H != 22 {
		t.Errorf("main = %+v, want rows 0-21", got)
	}
}

func TestResolveBadConstraints(t *testing.T) {
	for _, c := range []string{"abc", "-3", "150%", "x%", "BOTTOM-0", "BOTTOM-x"} {
		l := NewLayout(RegionSpec{Name: "r", Constraint: c})
		if _, err := l.Resolve(size80x24); err == nil {
			t.Errorf("constraint %q accepted", c)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	l := NewLayout(
		RegionSpec{Name: "header", Constraint: "3"},
		RegionSpec{Name: "main", Constraint: "FILL"},
		RegionSpec{Name: "status", Constraint: "BOTTOM"},
	)
	first, err := l.Resolve(size80x24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := l.Resolve(size80x24)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		for name, r := range first {
			if again[name] != r {
				t.Fatalf("region %q changed between identical resolves: %+v vs %+v",
					name, r, again[name])
			}
		}
	}
}

func TestRegionLookup(t *testing.T) {
	l := NewLayout(RegionSpec{Name: "main", Constraint: "FILL"})

	if _, err := l.Region("main", size80x24); err != nil {
		t.Errorf("Region(main): %v", err)
	}
	if _, err := l.Region("nope", size80x24); err == nil {
		t.Error("Region(nope) did not fail")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 2}
	in := []terminal.Position{{Col: 2, Row: 3}, {Col: 5, Row: 4}}
	out := []terminal.Position{{Col: 1, Row: 3}, {Col: 6, Row: 3}, {Col: 2, Row: 5}}
	for _, p := range in {
		if !r.Contains(p) {
			t.Errorf("Contains(%+v) = false", p)
		}
	}
	for _, p := range out {
		if r.Contains(p) {
			t.Errorf("Contains(%+v) = true", p)
		}
	}
}
