package terminal

import (
	"strings"
	"testing"
)

// collectEvents parses data in one shot and drains the event channel.
func collectEvents(t *testing.T, data []byte) ([]Event, int) {
	t.Helper()
	r := newInputReader(nil)
	consumed := r.parseInput(data)

	var events []Event
	for {
		select {
		case ev := <-r.eventCh:
			events = append(events, ev)
		default:
			return events, consumed
		}
	}
}

func TestParsePrintableASCII(t *testing.T) {
	events, consumed := collectEvents(t, []byte("jk"))
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Key != KeyRune || events[0].Rune != 'j' {
		t.Errorf("event 0 = %+v, want rune j", events[0])
	}
	if events[1].Key != KeyRune || events[1].Rune != 'k' {
		t.Errorf("event 1 = %+v, want rune k", events[1])
	}
}

func TestParseArrowKeys(t *testing.T) {
	tests := []struct {
		seq  string
		want Key
	}{
		{"\x1b[A", KeyUp},
		{"\x1b[B", KeyDown},
		{"\x1b[C", KeyRight},
		{"\x1b[D", KeyLeft},
		{"\x1bOA", KeyUp},
		{"\x1b[H", KeyHome},
		{"\x1b[F", KeyEnd},
		{"\x1b[3~", KeyDelete},
		{"\x1b[5~", KeyPageUp},
		{"\x1b[6~", KeyPageDown},
	}
	for _, tt := range tests {
		events, consumed := collectEvents(t, []byte(tt.seq))
		if consumed != len(tt.seq) {
			t.Errorf("%q: consumed %d of %d", tt.seq, consumed, len(tt.seq))
			continue
		}
		if len(events) != 1 || events[0].Key != tt.want {
			t.Errorf("%q: got %+v, want key %v", tt.seq, events, tt.want)
		}
	}
}

func TestParseIncompleteSequenceWaits(t *testing.T) {
	// A bare ESC and a partial CSI both park until more bytes arrive
	for _, partial := range []string{"\x1b", "\x1b[", "\x1b[1;"} {
		events, consumed := collectEvents(t, []byte(partial))
		if consumed != 0 {
			t.Errorf("%q: consumed %d, want 0", partial, consumed)
		}
		if len(events) != 0 {
			t.Errorf("%q: emitted %+v before sequence complete", partial, events)
		}
	}
}

func TestParseAltModifiers(t *testing.T) {
	events, _ := collectEvents(t, []byte("\x1bx"))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Key != KeyRune || ev.Rune != 'x' || ev.Modifiers&ModAlt == 0 {
		t.Errorf("Alt+x parsed as %+v", ev)
	}

	events, _ = collectEvents(t, []byte{0x1b, 0x1b})
	if len(events) != 1 || events[0].Key != KeyEscape || events[0].Modifiers&ModAlt == 0 {
		t.Errorf("ESC ESC parsed as %+v", events)
	}
}

func TestParseControlKeys(t *testing.T) {
	tests := []struct {
		b    byte
		want Key
	}{
		{0x03, KeyCtrlC},
		{0x04, KeyCtrlD},
		{0x09, KeyTab},
		{0x0d, KeyEnter},
		{0x0a, KeyEnter},
		{0x7f, KeyBackspace},
		{0x15, KeyCtrlU},
		{0x1a, KeyCtrlZ},
	}
	for _, tt := range tests {
		events, _ := collectEvents(t, []byte{tt.b})
		if len(events) != 1 || events[0].Key != tt.want {
			t.Errorf("byte %#x: got %+v, want key %v", tt.b, events, tt.want)
		}
	}
}

func TestParseUTF8(t *testing.T) {
	events, consumed := collectEvents(t, []byte("é日"))
	if consumed != len("é日") {
		t.Fatalf("consumed = %d, want %d", consumed, len("é日"))
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Rune != 'é' || events[1].Rune != '日' {
		t.Errorf("runes = %c %c, want é 日", events[0].Rune, events[1].Rune)
	}
}

func TestParseSplitUTF8Waits(t *testing.T) {
	full := []byte("日")
	events, consumed := collectEvents(t, full[:2])
	if consumed != 0 || len(events) != 0 {
		t.Errorf("partial UTF-8: consumed=%d events=%+v", consumed, events)
	}
}

func TestParseModifiedArrow(t *testing.T) {
	events, _ := collectEvents(t, []byte("\x1b[1;5C"))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Key != KeyRight || ev.Modifiers&ModCtrl == 0 {
		t.Errorf("Ctrl+Right parsed as %+v", ev)
	}
}

func TestUnknownCSISwallowed(t *testing.T) {
	// Valid syntax, unknown meaning: consumed without a key event
	events, consumed := collectEvents(t, []byte("\x1b[99;1X"))
	if consumed != len("\x1b[99;1X") {
		t.Errorf("unknown CSI: consumed %d", consumed)
	}
	for _, ev := range events {
		if ev.Key != KeyNone {
			t.Errorf("unknown CSI produced key event %+v", ev)
		}
	}
}

func TestRunawayCSIDiscarded(t *testing.T) {
	// Valid CSI syntax with no terminator anywhere in the scan window must
	// be dropped, not waited on forever; the key after it still arrives
	junk := "\x1b[" + strings.Repeat("1;", 10)
	data := []byte(junk + "q")

	events, consumed := collectEvents(t, data)
	if consumed != len(data) {
		t.Fatalf("consumed %d of %d bytes, parser wedged", consumed, len(data))
	}

	sawQ := false
	for _, ev := range events {
		if ev.Key == KeyRune && ev.Rune == 'q' {
			sawQ = true
		}
	}
	if !sawQ {
		t.Errorf("key after runaway sequence lost: %+v", events)
	}
}

func TestDecodeRuneOverlong(t *testing.T) {
	// Overlong encoding of '/' must not decode to '/'
	r, size := decodeRune([]byte{0xc0, 0xaf})
	if r == '/' {
		t.Error("overlong encoding decoded to /")
	}
	if r != 0xFFFD || size != 1 {
		t.Errorf("overlong: got %U size %d, want U+FFFD size 1", r, size)
	}
}
