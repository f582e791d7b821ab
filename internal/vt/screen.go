package vt

import (
	"bytes"
	"encoding/base64"
	"image/color"

	"github.com/charmbracelet/x/ansi"
)

// Size is the terminal grid shape in cells.
type Size struct {
	Rows int
	Cols int
}

// DefaultSize is the conventional 80x24 terminal.
var DefaultSize = Size{Rows: 24, Cols: 80}

// Cursor is a zero-based grid position.
type Cursor struct {
	Row int
	Col int
}

// screen owns the character grid, cursor, pending attributes, title,
// scrollback, and the event queue. It mutates in response to tokenizer
// actions via a plain branch in apply, never failing on unknown input.
type screen struct {
	size    Size
	rows    []Line
	sb      *scrollback
	cursor  Cursor
	title   string
	palette [16]color.RGBA

	defaultFg, defaultBg color.RGBA
	curFg, curBg         color.RGBA
	attrs                Attributes

	pending []Event
}

func newScreen(size Size, scrollbackLines int) *screen {
	s := &screen{
		size:      size,
		sb:        newScrollback(scrollbackLines),
		palette:   DefaultPalette,
		defaultFg: DefaultFg,
		defaultBg: DefaultBg,
		curFg:     DefaultFg,
		curBg:     DefaultBg,
	}
	s.rows = make([]Line, size.Rows)
	for i := range s.rows {
		s.rows[i] = blankLine(size.Cols)
	}
	return s
}

// apply mutates the screen according to one tokenizer action. ESC and DCS
// dispatches are accepted but inert.
func (s *screen) apply(a Action) {
	switch a.Kind {
	case ActionPrint:
		s.put(a.Rune)
	case ActionExecute:
		s.execute(a.Byte)
	case ActionCSI:
		s.csi(a)
	case ActionOSC:
		s.osc(a)
	case ActionESC, ActionDCS:
	}
}

// put writes one character at the cursor with the pending attributes and
// advances the cursor, wrapping to a new line first when at the right edge.
func (s *screen) put(r rune) {
	if s.cursor.Col >= s.size.Cols {
		s.newline()
	}
	if s.cursor.Row < s.size.Rows && s.cursor.Col < s.size.Cols {
		s.rows[s.cursor.Row][s.cursor.Col] = Cell{
			Content: string(r),
			FG:      s.curFg,
			BG:      s.curBg,
			Attrs:   s.attrs,
		}
		s.cursor.Col++
	}
}

func (s *screen) execute(b byte) {
	switch b {
	case 0x07: // BEL
		s.pending = append(s.pending, BellEvent{})
	case 0x08: // BS, saturating at column 0
		if s.cursor.Col > 0 {
			s.cursor.Col--
		}
	case 0x09: // HT, next multiple-of-8 stop clamped to the last column
		next := (s.cursor.Col/8 + 1) * 8
		s.cursor.Col = min(next, s.size.Cols-1)
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		s.newline()
	case 0x0d: // CR
		s.cursor.Col = 0
	}
}

// newline resets the column and advances the row, scrolling when the
// cursor is on the last row.
func (s *screen) newline() {
	s.cursor.Col = 0
	if s.cursor.Row+1 >= s.size.Rows {
		s.scrollUp()
	} else {
		s.cursor.Row++
	}
}

// scrollUp evicts the top row into scrollback and appends a blank row at
// the bottom.
func (s *screen) scrollUp() {
	if len(s.rows) == 0 {
		return
	}
	top := s.rows[0]
	copy(s.rows, s.rows[1:])
	s.rows[len(s.rows)-1] = blankLine(s.size.Cols)
	s.sb.push(top)
}

// param returns the i-th parameter, substituting def when the parameter is
// absent or was omitted.
func param(params []int, i, def int) int {
	if i >= len(params) || params[i] == omitted {
		return def
	}
	return params[i]
}

func (s *screen) csi(a Action) {
	// Sequences with a private marker or intermediate select variants this
	// core does not implement.
	if a.Prefix != 0 || a.Intermed != 0 {
		return
	}
	switch a.Final {
	case 'A': // CUU
		n := max(param(a.Params, 0, 1), 1)
		s.cursor.Row = max(s.cursor.Row-n, 0)
	case 'B': // CUD
		n := max(param(a.Params, 0, 1), 1)
		s.cursor.Row = min(s.cursor.Row+n, s.size.Rows-1)
	case 'C': // CUF
		n := max(param(a.Params, 0, 1), 1)
		s.cursor.Col = min(s.cursor.Col+n, s.size.Cols-1)
	case 'D': // CUB
		n := max(param(a.Params, 0, 1), 1)
		s.cursor.Col = max(s.cursor.Col-n, 0)
	case 'H', 'f': // CUP, HVP: 1-based, clamped
		row := max(param(a.Params, 0, 1), 1) - 1
		col := max(param(a.Params, 1, 1), 1) - 1
		s.cursor.Row = min(row, s.size.Rows-1)
		s.cursor.Col = min(col, s.size.Cols-1)
	case 'J':
		s.eraseDisplay(param(a.Params, 0, 0))
	case 'K':
		s.eraseLine(param(a.Params, 0, 0))
	case 'm':
		if len(a.Params) == 0 {
			s.sgr([]int{0})
		} else {
			s.sgr(a.Params)
		}
	}
}

func (s *screen) eraseDisplay(mode int) {
	switch mode {
	case 0: // cursor to end of screen
		s.clearRowRange(s.cursor.Row, s.cursor.Col, s.size.Cols-1)
		for r := s.cursor.Row + 1; r < s.size.Rows; r++ {
			s.clearRowRange(r, 0, s.size.Cols-1)
		}
	case 1: // start of screen through cursor
		for r := 0; r < s.cursor.Row; r++ {
			s.clearRowRange(r, 0, s.size.Cols-1)
		}
		s.clearRowRange(s.cursor.Row, 0, s.cursor.Col)
	case 2, 3: // whole screen
		for r := 0; r < s.size.Rows; r++ {
			s.clearRowRange(r, 0, s.size.Cols-1)
		}
	}
}

func (s *screen) eraseLine(mode int) {
	switch mode {
	case 0:
		s.clearRowRange(s.cursor.Row, s.cursor.Col, s.size.Cols-1)
	case 1:
		s.clearRowRange(s.cursor.Row, 0, s.cursor.Col)
	case 2:
		s.clearRowRange(s.cursor.Row, 0, s.size.Cols-1)
	}
}

// clearRowRange resets cells [from, to] of a row to the default cell,
// clamping out-of-range indices.
func (s *screen) clearRowRange(row, from, to int) {
	if row < 0 || row >= len(s.rows) {
		return
	}
	line := s.rows[row]
	from = max(from, 0)
	to = min(to, len(line)-1)
	for c := from; c <= to; c++ {
		line[c] = DefaultCell()
	}
}

// sgr applies a Select Graphic Rendition parameter list to the pending
// attribute state. Extended color codes consume their extra parameters so
// later codes in the same sequence are not misread. Unknown codes are
// no-ops.
func (s *screen) sgr(params []int) {
	for i := 0; i < len(params); i++ {
		p := params[i]
		if p == omitted {
			p = 0
		}
		switch {
		case p == 0:
			s.attrs = Attributes{}
			s.curFg = s.defaultFg
			s.curBg = s.defaultBg
		case p == 1:
			s.attrs.Bold = true
		case p == 2:
			s.attrs.Dim = true
		case p == 3:
			s.attrs.Italic = true
		case p == 4:
			s.attrs.Underline = true
		case p == 5 || p == 6:
			s.attrs.Blink = true
		case p == 7:
			s.attrs.Inverse = true
		case p == 8:
			s.attrs.Hidden = true
		case p == 9:
			s.attrs.Strikethrough = true
		case p == 21 || p == 22:
			s.attrs.Bold = false
			s.attrs.Dim = false
		case p == 23:
			s.attrs.Italic = false
		case p == 24:
			s.attrs.Underline = false
		case p == 25:
			s.attrs.Blink = false
		case p == 27:
			s.attrs.Inverse = false
		case p == 28:
			s.attrs.Hidden = false
		case p == 29:
			s.attrs.Strikethrough = false
		case p >= 30 && p <= 37:
			s.curFg = s.palette[p-30]
		case p == 38:
			if c, skip, ok := s.extendedColor(params, i); ok {
				s.curFg = c
				i += skip
			}
		case p == 39:
			s.curFg = s.defaultFg
		case p >= 40 && p <= 47:
			s.curBg = s.palette[p-40]
		case p == 48:
			if c, skip, ok := s.extendedColor(params, i); ok {
				s.curBg = c
				i += skip
			}
		case p == 49:
			s.curBg = s.defaultBg
		case p >= 90 && p <= 97:
			s.curFg = s.palette[p-90+8]
		case p >= 100 && p <= 107:
			s.curBg = s.palette[p-100+8]
		}
	}
}

// extendedColor resolves a 38/48 extended color selection starting at
// index i, returning the color and the number of extra parameters
// consumed. An incomplete selection is ignored.
func (s *screen) extendedColor(params []int, i int) (color.RGBA, int, bool) {
	switch {
	case i+2 < len(params) && param(params, i+1, 0) == 5:
		idx := param(params, i+2, 0)
		return color256(&s.palette, idx), 2, true
	case i+4 < len(params) && param(params, i+1, 0) == 2:
		clamp8 := func(v int) uint8 {
			if v < 0 {
				return 0
			}
			if v > 255 {
				return 255
			}
			return uint8(v)
		}
		return color.RGBA{
			R: clamp8(param(params, i+2, 0)),
			G: clamp8(param(params, i+3, 0)),
			B: clamp8(param(params, i+4, 0)),
			A: 0xff,
		}, 4, true
	}
	return color.RGBA{}, 0, false
}

func (s *screen) osc(a Action) {
	switch a.Cmd {
	case 0, 2: // window title
		if len(a.Data) >= 2 {
			title := string(bytes.Join(a.Data[1:], []byte{';'}))
			s.title = title
			s.pending = append(s.pending, TitleEvent{Title: title})
		}
	case 10, 11: // default foreground/background
		s.oscColor(a)
	case 52: // clipboard
		s.oscClipboard(a)
	}
}

func (s *screen) oscColor(a Action) {
	// setDefault swaps the default color and keeps the pending color in
	// step when it was still tracking the old default.
	setDefault := func(c color.RGBA) {
		if a.Cmd == 10 {
			if s.curFg == s.defaultFg {
				s.curFg = c
			}
			s.defaultFg = c
		} else {
			if s.curBg == s.defaultBg {
				s.curBg = c
			}
			s.defaultBg = c
		}
		s.pending = append(s.pending, ColorEvent{})
	}
	if len(a.Data) < 2 {
		if a.Cmd == 10 {
			setDefault(DefaultFg)
		} else {
			setDefault(DefaultBg)
		}
		return
	}
	arg := string(a.Data[1])
	if arg == "?" {
		// Color queries need a response channel back to the application;
		// this core has none, so they are ignored.
		return
	}
	c := ansi.XParseColor(arg)
	if c == nil {
		return
	}
	rgba, ok := color.RGBAModel.Convert(c).(color.RGBA)
	if !ok {
		return
	}
	setDefault(rgba)
}

// oscClipboard handles OSC 52: "52;<selection>;<payload>". A "?" payload
// is a paste request; anything else is base64 text to copy. Undecodable
// payloads are dropped.
func (s *screen) oscClipboard(a Action) {
	if len(a.Data) < 3 {
		return
	}
	payload := a.Data[2]
	if string(payload) == "?" {
		s.pending = append(s.pending, ClipboardPasteEvent{})
		return
	}
	text, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return
	}
	s.pending = append(s.pending, ClipboardCopyEvent{Text: string(text)})
}

// clearScreen resets every visible cell and homes the cursor, leaving
// scrollback untouched.
func (s *screen) clearScreen() {
	for r := range s.rows {
		s.rows[r] = blankLine(s.size.Cols)
	}
	s.cursor = Cursor{}
}

// resetGraphics restores default pending attributes and colors.
func (s *screen) resetGraphics() {
	s.attrs = Attributes{}
	s.curFg = s.defaultFg
	s.curBg = s.defaultBg
}

// clampCursor forces the cursor into grid bounds.
func (s *screen) clampCursor() {
	s.cursor.Row = min(max(s.cursor.Row, 0), s.size.Rows-1)
	s.cursor.Col = min(max(s.cursor.Col, 0), s.size.Cols-1)
}
