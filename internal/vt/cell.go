// Package vt implements a crash-tolerant VT100/xterm terminal emulation
// engine: an escape-sequence tokenizer, a character-grid state machine with
// scrollback, a resize/reflow algorithm, and a health-monitoring layer that
// keeps the emulator alive under malformed input.
package vt

import "image/color"

// Default foreground and background colors used when no theme is injected.
var (
	DefaultFg = color.RGBA{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff}
	DefaultBg = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)

// DefaultPalette is the built-in 16-entry ANSI color palette (standard
// xterm values). It is immutable; terminals copy it at construction and
// may override their working copy via SetPalette.
var DefaultPalette = [16]color.RGBA{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff}, // 0: black
	{R: 0xcd, G: 0x00, B: 0x00, A: 0xff}, // 1: red
	{R: 0x00, G: 0xcd, B: 0x00, A: 0xff}, // 2: green
	{R: 0xcd, G: 0xcd, B: 0x00, A: 0xff}, // 3: yellow
	{R: 0x00, G: 0x00, B: 0xee, A: 0xff}, // 4: blue
	{R: 0xcd, G: 0x00, B: 0xcd, A: 0xff}, // 5: magenta
	{R: 0x00, G: 0xcd, B: 0xcd, A: 0xff}, // 6: cyan
	{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff}, // 7: white
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}, // 8: bright black
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff}, // 9: bright red
	{R: 0x00, G: 0xff, B: 0x00, A: 0xff}, // 10: bright green
	{R: 0xff, G: 0xff, B: 0x00, A: 0xff}, // 11: bright yellow
	{R: 0x5c, G: 0x5c, B: 0xff, A: 0xff}, // 12: bright blue
	{R: 0xff, G: 0x00, B: 0xff, A: 0xff}, // 13: bright magenta
	{R: 0x00, G: 0xff, B: 0xff, A: 0xff}, // 14: bright cyan
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, // 15: bright white
}

// Attributes is the set of display attributes applied to a cell.
type Attributes struct {
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Blink         bool
	Inverse       bool
	Hidden        bool
	Strikethrough bool
}

// Cell is a single character cell in the terminal grid. Content is usually
// one grapheme but may span multiple codepoints for combined or emoji
// glyphs. The zero value is not a valid cell; use DefaultCell.
type Cell struct {
	Content string
	FG      color.RGBA
	BG      color.RGBA
	Attrs   Attributes
}

// DefaultCell returns a blank cell with default colors and no attributes.
func DefaultCell() Cell {
	return Cell{FG: DefaultFg, BG: DefaultBg}
}

// IsBlank reports whether the cell holds no visible content. A cell whose
// content is empty or a single space counts as blank for reflow purposes.
func (c Cell) IsBlank() bool {
	return c.Content == "" || c.Content == " "
}

// Line is a single row of cells.
type Line []Cell

// blankLine returns a line of cols default cells.
func blankLine(cols int) Line {
	l := make(Line, cols)
	for i := range l {
		l[i] = DefaultCell()
	}
	return l
}

// isBlank reports whether every cell in the line is blank.
func (l Line) isBlank() bool {
	for _, c := range l {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// resized returns a copy of the line padded or truncated to cols cells.
func (l Line) resized(cols int) Line {
	out := make(Line, cols)
	n := copy(out, l)
	for i := n; i < cols; i++ {
		out[i] = DefaultCell()
	}
	return out
}

// color256 resolves an indexed color out of the 256-color space.
// Indices 0-15 come from the working palette, 16-231 from the 6x6x6 color
// cube, and 232-255 from the 24-step grayscale ramp.
func color256(palette *[16]color.RGBA, idx int) color.RGBA {
	switch {
	case idx < 0 || idx > 255:
		return DefaultFg
	case idx < 16:
		return palette[idx]
	case idx < 232:
		idx -= 16
		level := func(v int) uint8 {
			if v == 0 {
				return 0
			}
			return uint8(55 + 40*v)
		}
		r := (idx / 36) % 6
		g := (idx / 6) % 6
		b := idx % 6
		return color.RGBA{R: level(r), G: level(g), B: level(b), A: 0xff}
	default:
		v := uint8(8 + 10*(idx-232))
		return color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
}
