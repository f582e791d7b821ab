package vt

import (
	"errors"
	"testing"
)

func TestValidate_HealthyTerminal(t *testing.T) {
	term := newTestTerminal(24, 80)
	feed(term, "hello\x1b[5;5Hworld")
	if err := term.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate_DetectsCursorOutOfBounds(t *testing.T) {
	term := newTestTerminal(24, 80)
	term.scr.cursor = Cursor{Row: 30, Col: 0}

	err := term.Validate()
	if err == nil {
		t.Fatal("Validate() = nil for out-of-bounds cursor")
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Validate() error = %v, want ErrInvalidState", err)
	}
}

func TestValidate_DetectsGridSizeMismatch(t *testing.T) {
	term := newTestTerminal(24, 80)
	term.scr.rows = term.scr.rows[:20]

	if err := term.Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Validate() = %v, want ErrInvalidState", err)
	}
}

func TestSafeProcess_HealthyStaysHealthy(t *testing.T) {
	term := newTestTerminal(24, 80)
	if h := term.SafeProcess([]byte("normal output\x1b[31mred")); h != HealthHealthy {
		t.Errorf("health = %v, want healthy", h)
	}
	if term.ErrorCount() != 0 {
		t.Errorf("error count = %d, want 0", term.ErrorCount())
	}
}

func TestSafeProcess_SoftResetsOnCorruption(t *testing.T) {
	term := newTestTerminal(24, 80)
	feed(term, "keep this content")
	term.scr.cursor = Cursor{Row: 99, Col: 99}

	h := term.SafeProcess([]byte("x\r"))

	// Degraded is upgraded to Recovered once the pass completes cleanly.
	if h != HealthRecovered {
		t.Errorf("health = %v, want recovered", h)
	}
	if got := term.Cell(0, 0).Content; got != "k" {
		t.Errorf("soft reset destroyed content: cell 0,0 = %q", got)
	}
	if err := term.Validate(); err != nil {
		t.Errorf("state still invalid after recovery: %v", err)
	}
}

func TestSafeProcess_EscalatesToHardResetAtThreshold(t *testing.T) {
	term := newTestTerminal(24, 80)
	term.SetMaxErrors(1)
	feed(term, "content\r\nmore")
	term.scr.cursor = Cursor{Row: 99, Col: 99}

	h := term.SafeProcess(nil)

	if h != HealthRecovered {
		t.Errorf("health = %v, want recovered", h)
	}
	if got := term.Cell(0, 0); !got.IsBlank() {
		t.Errorf("hard reset left content behind: %q", got.Content)
	}
	if cur := term.Cursor(); cur != (Cursor{}) {
		t.Errorf("cursor = %v, want origin", cur)
	}
}

func TestSafeProcess_MalformedInputNeverPanics(t *testing.T) {
	term := newTestTerminal(24, 80)
	inputs := [][]byte{
		[]byte("\x1b"),
		[]byte("\x1b["),
		[]byte("\x1b[999999999999999999999m"),
		[]byte("\x1b]0;unterminated title"),
		[]byte("\x1b]52;c;"),
		[]byte("\xff\xfe\x80\x80"),
		[]byte("\x1bP unfinished dcs"),
		{0x9b, 0x41},
		[]byte("\x1b[;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;;H"),
	}
	for _, in := range inputs {
		h := term.SafeProcess(in)
		switch h {
		case HealthHealthy, HealthRecovered, HealthDegraded, HealthNeedsReset:
		default:
			t.Errorf("SafeProcess(%q) returned undefined health %v", in, h)
		}
	}
	if err := term.Validate(); err != nil {
		t.Errorf("state invalid after malformed input: %v", err)
	}
}

func TestHardReset_RestoresPristineState(t *testing.T) {
	term := newTestTerminal(10, 20)
	feed(term, "\x1b]0;title\x07\x1b[31mcolored\r\nlines\r\nhere")
	term.MarkDegraded()

	term.HardReset()

	if term.Health() != HealthHealthy {
		t.Errorf("health = %v, want healthy", term.Health())
	}
	if term.ErrorCount() != 0 {
		t.Errorf("error count = %d, want 0", term.ErrorCount())
	}
	if cur := term.Cursor(); cur != (Cursor{}) {
		t.Errorf("cursor = %v, want origin", cur)
	}
	if size := term.Size(); size.Rows != 10 || size.Cols != 20 {
		t.Errorf("size = %v, want 10x20", size)
	}
	for r := 0; r < 10; r++ {
		for c := 0; c < 20; c++ {
			if cell := term.Cell(r, c); !cell.IsBlank() || cell.FG != DefaultFg {
				t.Fatalf("cell %d,%d not default after hard reset", r, c)
			}
		}
	}
	if term.ScrollbackLen() != 0 {
		t.Errorf("scrollback has %d rows after hard reset, want 0", term.ScrollbackLen())
	}
}

func TestHardReset_DiscardsPartialSequence(t *testing.T) {
	term := newTestTerminal(24, 80)
	// Leave the tokenizer mid-OSC, then hard reset.
	feed(term, "\x1b]0;stuck")
	term.HardReset()

	// Printable bytes must print, not be swallowed by the stale OSC.
	feed(term, "ok")
	if got := term.Cell(0, 0).Content; got != "o" {
		t.Errorf("cell 0,0 = %q, want o", got)
	}
}

func TestSoftReset_PreservesContentAndScrollback(t *testing.T) {
	term := newTestTerminal(2, 10)
	feed(term, "a\r\nb\r\nc\x1b[1;31;44m")

	sbBefore := term.ScrollbackLen()
	term.SoftReset()

	if term.ScrollbackLen() != sbBefore {
		t.Errorf("soft reset changed scrollback: %d -> %d", sbBefore, term.ScrollbackLen())
	}
	// Pending graphics are back to default.
	feed(term, "x")
	cur := term.Cursor()
	cell := term.Cell(cur.Row, cur.Col-1)
	if cell.FG != DefaultFg || cell.BG != DefaultBg || cell.Attrs.Bold {
		t.Errorf("cell after soft reset = %+v, want default graphics", cell)
	}
}

func TestMarkNeedsReset(t *testing.T) {
	term := newTestTerminal(24, 80)
	if term.NeedsReset() {
		t.Error("fresh terminal reports NeedsReset")
	}
	term.MarkNeedsReset()
	if !term.NeedsReset() {
		t.Error("NeedsReset() = false after MarkNeedsReset")
	}
	if term.Health() != HealthNeedsReset {
		t.Errorf("health = %v, want needs-reset", term.Health())
	}
	term.HardReset()
	if term.NeedsReset() {
		t.Error("NeedsReset() = true after hard reset")
	}
}

func TestHealth_String(t *testing.T) {
	cases := map[Health]string{
		HealthHealthy:    "healthy",
		HealthRecovered:  "recovered",
		HealthDegraded:   "degraded",
		HealthNeedsReset: "needs-reset",
	}
	for h, want := range cases {
		if got := h.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(h), got, want)
		}
	}
}

type recordingLogger struct {
	lines int
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.lines++
}

func TestSafeProcess_LogsInvalidState(t *testing.T) {
	term := newTestTerminal(24, 80)
	logger := &recordingLogger{}
	term.SetLogger(logger)
	term.scr.cursor = Cursor{Row: -1, Col: 0}

	term.SafeProcess(nil)
	if logger.lines == 0 {
		t.Error("invalid state was not logged")
	}
}
