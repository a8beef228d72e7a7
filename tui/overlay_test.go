package tui

import "testing"

func TestOverlayDismissSchedulesRestore(t *testing.T) {
	var o Overlay
	rect := Rect{X: 4, Y: 2, W: 20, H: 6}

	if _, need := o.takeRestore(); need {
		t.Error("fresh overlay has pending restore")
	}

	o.Show(rect)
	if !o.Active() || o.Rect() != rect {
		t.Errorf("after Show: active=%v rect=%+v", o.Active(), o.Rect())
	}
	if _, need := o.takeRestore(); need {
		t.Error("Show scheduled a restore")
	}

	o.Dismiss()
	if o.Active() {
		t.Error("overlay active after Dismiss")
	}
	got, need := o.takeRestore()
	if !need || got != rect {
		t.Errorf("takeRestore = %+v %v, want %+v true", got, need, rect)
	}
	if _, need := o.takeRestore(); need {
		t.Error("restore delivered twice")
	}
}

func TestOverlayDismissInactiveNoop(t *testing.T) {
	var o Overlay
	o.Dismiss()
	if _, need := o.takeRestore(); need {
		t.Error("dismissing inactive overlay scheduled a restore")
	}
}

func TestOverlayMoveRestoresOldRect(t *testing.T) {
	var o Overlay
	first := Rect{X: 0, Y: 0, W: 10, H: 4}
	second := Rect{X: 20, Y: 5, W: 10, H: 4}

	o.Show(first)
	o.Show(second)

	got, need := o.takeRestore()
	if !need || got != first {
		t.Errorf("move restore = %+v %v, want %+v true", got, need, first)
	}
	if !o.Active() || o.Rect() != second {
		t.Errorf("after move: active=%v rect=%+v", o.Active(), o.Rect())
	}
}
