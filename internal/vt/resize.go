package vt

// resize reflows the grid to a new shape, keeping visible content and the
// cursor attached to the text it was on.
//
// Shrinking columns re-wraps each row into chunks of the new width; a
// chunk survives when it is the row's first chunk, holds non-blank
// content, or contains the cursor. Growing columns only pads rows, it
// does not re-merge previously wrapped lines. Vertical overflow is pushed
// into scrollback and shortfall is pulled back from it.
func (s *screen) resize(size Size) {
	if size.Rows < 1 || size.Cols < 1 {
		return
	}
	if size == s.size {
		return
	}

	var reflowed []Line
	cursor := s.cursor
	if size.Cols < s.size.Cols {
		reflowed, cursor = s.reflowShrink(size.Cols)
	} else {
		reflowed = make([]Line, len(s.rows))
		for i, row := range s.rows {
			reflowed[i] = row.resized(size.Cols)
		}
	}

	if excess := len(reflowed) - size.Rows; excess > 0 {
		for _, row := range reflowed[:excess] {
			s.sb.push(row)
		}
		reflowed = reflowed[excess:]
		cursor.Row -= excess
	} else if len(reflowed) < size.Rows {
		pulled := 0
		for len(reflowed) < size.Rows {
			row := s.sb.popNewest()
			if row == nil {
				break
			}
			reflowed = append([]Line{row.resized(size.Cols)}, reflowed...)
			pulled++
		}
		cursor.Row += pulled
		for len(reflowed) < size.Rows {
			reflowed = append(reflowed, blankLine(size.Cols))
		}
	}

	s.rows = reflowed
	s.size = size
	s.cursor = cursor
	s.clampCursor()
}

// reflowShrink splits every row into chunks of the new width and keeps
// the chunks worth showing, returning the new rows and the cursor mapped
// onto them.
func (s *screen) reflowShrink(cols int) ([]Line, Cursor) {
	var out []Line
	cursor := s.cursor
	for r, row := range s.rows {
		for start := 0; start == 0 || start < len(row); start += cols {
			end := min(start+cols, len(row))
			chunk := Line(row[start:end])
			cursorHere := r == s.cursor.Row && s.cursor.Col >= start && s.cursor.Col < start+cols
			if start != 0 && chunk.isBlank() && !cursorHere {
				continue
			}
			if cursorHere {
				cursor = Cursor{Row: len(out), Col: s.cursor.Col - start}
			}
			out = append(out, chunk.resized(cols))
		}
	}
	return out, cursor
}
