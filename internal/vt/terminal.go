package vt

import (
	"errors"
	"fmt"
	"image/color"
)

// Logger represents a logger interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Health is the terminal's recovery status.
type Health int

const (
	// HealthHealthy means the terminal is functioning normally.
	HealthHealthy Health = iota
	// HealthRecovered means the terminal recovered from an error.
	HealthRecovered
	// HealthDegraded means a soft reset was applied after an inconsistency.
	HealthDegraded
	// HealthNeedsReset means only an explicit hard reset can recover the
	// terminal. It is set by the caller after repeated I/O failures.
	HealthNeedsReset
)

func (h Health) String() string {
	switch h {
	case HealthHealthy:
		return "healthy"
	case HealthRecovered:
		return "recovered"
	case HealthDegraded:
		return "degraded"
	case HealthNeedsReset:
		return "needs-reset"
	default:
		return fmt.Sprintf("health(%d)", int(h))
	}
}

// DefaultMaxErrors is the consecutive-error threshold at which guarded
// processing escalates from soft to hard reset.
const DefaultMaxErrors = 10

// ErrInvalidState reports a structural-invariant violation detected by
// Validate.
var ErrInvalidState = errors.New("terminal state invalid")

// Terminal is the emulation facade. It owns the tokenizer, the grid state
// machine, and the health monitor. It is not safe for concurrent use; the
// caller serializes access, typically one reader loop per instance.
type Terminal struct {
	tok    *Tokenizer
	scr    *screen
	sink   EventSink
	logger Logger

	health     Health
	errorCount int
	maxErrors  int
}

// New creates a terminal with the given grid size. Events produced while
// processing are forwarded to sink; a nil sink discards them.
func New(size Size, sink EventSink) *Terminal {
	if size.Rows < 1 || size.Cols < 1 {
		size = DefaultSize
	}
	return &Terminal{
		tok:       NewTokenizer(),
		scr:       newScreen(size, DefaultScrollbackLines),
		sink:      sink,
		health:    HealthHealthy,
		maxErrors: DefaultMaxErrors,
	}
}

// SetLogger sets the terminal's logger.
func (t *Terminal) SetLogger(l Logger) {
	t.logger = l
}

// SetMaxErrors overrides the error threshold for hard-reset escalation.
// Values below 1 are ignored.
func (t *Terminal) SetMaxErrors(n int) {
	if n >= 1 {
		t.maxErrors = n
	}
}

// SetPalette replaces the terminal's working 16-color palette, typically
// from a theme.
func (t *Terminal) SetPalette(p [16]color.RGBA) {
	t.scr.palette = p
}

// SetDefaultColors overrides the default foreground and background applied
// on style resets and to blank cells printed from now on.
func (t *Terminal) SetDefaultColors(fg, bg color.RGBA) {
	t.scr.defaultFg = fg
	t.scr.defaultBg = bg
	t.scr.curFg = fg
	t.scr.curBg = bg
}

// Process interprets raw PTY output. Partial escape sequences are buffered
// in the tokenizer across calls. Events produced during the pass are
// drained to the sink afterwards, redraw last.
func (t *Terminal) Process(b []byte) {
	before := t.scr.cursor
	for _, a := range t.tok.Tokenize(b) {
		t.scr.apply(a)
	}
	if t.errorCount > 0 {
		t.errorCount = 0
		if t.health == HealthDegraded {
			t.health = HealthRecovered
		}
	}
	t.drainEvents(before)
}

// SafeProcess is the guarded entry point: it validates structure before
// interpreting bytes, soft-resetting on an inconsistency and escalating to
// a hard reset once the error threshold is reached. It returns the health
// status after processing. Malformed bytes themselves never fail; only
// structural violations count as errors.
func (t *Terminal) SafeProcess(b []byte) Health {
	if err := t.Validate(); err != nil {
		t.errorCount++
		t.logf("vt: invalid state (%d/%d): %v", t.errorCount, t.maxErrors, err)
		if t.errorCount >= t.maxErrors {
			t.HardReset()
			t.health = HealthRecovered
		} else {
			t.SoftReset()
			t.health = HealthDegraded
		}
	}
	t.Process(b)
	return t.health
}

// Validate checks the structural invariants: the cursor inside grid
// bounds and the grid sized exactly rows x cols.
func (t *Terminal) Validate() error {
	s := t.scr
	if s.cursor.Row < 0 || s.cursor.Row >= s.size.Rows ||
		s.cursor.Col < 0 || s.cursor.Col >= s.size.Cols {
		return fmt.Errorf("%w: cursor %d,%d outside %dx%d grid",
			ErrInvalidState, s.cursor.Row, s.cursor.Col, s.size.Rows, s.size.Cols)
	}
	if len(s.rows) != s.size.Rows {
		return fmt.Errorf("%w: %d grid rows, size says %d",
			ErrInvalidState, len(s.rows), s.size.Rows)
	}
	for i, row := range s.rows {
		if len(row) != s.size.Cols {
			return fmt.Errorf("%w: row %d has %d cells, size says %d",
				ErrInvalidState, i, len(row), s.size.Cols)
		}
	}
	return nil
}

// SoftReset restores default attributes and colors and clamps the cursor
// into bounds, preserving all grid and scrollback content. Similar to
// DECSTR.
func (t *Terminal) SoftReset() {
	t.scr.resetGraphics()
	t.scr.clampCursor()
}

// HardReset reallocates a blank grid at the current size, discards
// scrollback, pending events, and any buffered partial escape sequence,
// and returns health to Healthy. Similar to RIS.
func (t *Terminal) HardReset() {
	size := t.scr.size
	max := t.scr.sb.max
	s := newScreen(size, max)
	s.palette = t.scr.palette
	s.defaultFg = t.scr.defaultFg
	s.defaultBg = t.scr.defaultBg
	s.curFg = s.defaultFg
	s.curBg = s.defaultBg
	t.scr = s
	t.tok = NewTokenizer()
	t.errorCount = 0
	t.health = HealthHealthy
}

// Health returns the current health status.
func (t *Terminal) Health() Health {
	return t.health
}

// NeedsReset reports whether only a hard reset can recover the terminal.
func (t *Terminal) NeedsReset() bool {
	return t.health == HealthNeedsReset
}

// MarkDegraded flags the terminal as degraded from outside, e.g. after a
// transient I/O failure.
func (t *Terminal) MarkDegraded() {
	t.health = HealthDegraded
}

// MarkNeedsReset flags the terminal as requiring a hard reset, e.g. after
// repeated I/O failures in the caller's read loop.
func (t *Terminal) MarkNeedsReset() {
	t.health = HealthNeedsReset
}

// ErrorCount returns the consecutive-error counter, for diagnostics.
func (t *Terminal) ErrorCount() int {
	return t.errorCount
}

// Resize reflows the terminal to a new size. The caller resizes the
// in-memory model first, then the underlying PTY, so the kernel and the
// grid never disagree.
func (t *Terminal) Resize(size Size) {
	t.scr.resize(size)
}

// ClearScreen resets every visible cell and homes the cursor without
// touching scrollback. Callers issue it before a shrink to avoid residual
// ghost content.
func (t *Terminal) ClearScreen() {
	t.scr.clearScreen()
}

// Size returns the current grid shape.
func (t *Terminal) Size() Size {
	return t.scr.size
}

// Cell returns the cell at a position, or a default cell when out of
// bounds.
func (t *Terminal) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.scr.rows) {
		return DefaultCell()
	}
	line := t.scr.rows[row]
	if col < 0 || col >= len(line) {
		return DefaultCell()
	}
	return line[col]
}

// Cursor returns the cursor position.
func (t *Terminal) Cursor() Cursor {
	return t.scr.cursor
}

// Title returns the window title set via OSC 0/2, or "".
func (t *Terminal) Title() string {
	return t.scr.title
}

// Grid returns the visible rows. The slice and its lines are live; the
// caller must not retain them across processing calls.
func (t *Terminal) Grid() []Line {
	return t.scr.rows
}

// Scrollback returns the evicted rows, oldest first.
func (t *Terminal) Scrollback() []Line {
	return t.scr.sb.all()
}

// ScrollbackLen returns the number of rows held in scrollback.
func (t *Terminal) ScrollbackLen() int {
	return t.scr.sb.len()
}

// SetMaxScrollback changes the scrollback cap, discarding the oldest rows
// when shrinking below the current length.
func (t *Terminal) SetMaxScrollback(maxLines int) {
	t.scr.sb.setMax(maxLines)
}

// drainEvents forwards the pass's queued events to the sink in order,
// appending a cursor-moved event when the cursor changed and a redraw
// event last.
func (t *Terminal) drainEvents(before Cursor) {
	queued := t.scr.pending
	t.scr.pending = t.scr.pending[:0]
	if t.sink == nil {
		return
	}
	for _, ev := range queued {
		t.sink(ev)
	}
	if after := t.scr.cursor; after != before {
		t.sink(CursorEvent{Row: after.Row, Col: after.Col})
	}
	t.sink(RedrawEvent{})
}

func (t *Terminal) logf(format string, v ...any) {
	if t.logger != nil {
		t.logger.Printf(format, v...)
	}
}
