package vt

// DefaultScrollbackLines is the default scrollback capacity.
const DefaultScrollbackLines = 10000

// scrollback stores rows evicted from the top of the visible grid, oldest
// first, capped at a maximum. It is a ring buffer so eviction and growth
// on the scroll and resize hot paths stay O(1) per row.
type scrollback struct {
	lines []Line
	max   int
	head  int // index of the oldest line
	tail  int // index where the next line is written
	full  bool
}

func newScrollback(maxLines int) *scrollback {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackLines
	}
	return &scrollback{
		lines: make([]Line, maxLines),
		max:   maxLines,
	}
}

// push appends a line as the newest entry, discarding the oldest when the
// buffer is at capacity.
func (sb *scrollback) push(l Line) {
	sb.lines[sb.tail] = l
	sb.tail = (sb.tail + 1) % sb.max
	if sb.full {
		sb.head = (sb.head + 1) % sb.max
	}
	if sb.tail == sb.head {
		sb.full = true
	}
}

// popNewest removes and returns the most recently pushed line, or nil when
// the buffer is empty. Used by resize to pull rows back into the grid.
func (sb *scrollback) popNewest() Line {
	if sb.len() == 0 {
		return nil
	}
	sb.tail = (sb.tail - 1 + sb.max) % sb.max
	l := sb.lines[sb.tail]
	sb.lines[sb.tail] = nil
	sb.full = false
	return l
}

func (sb *scrollback) len() int {
	if sb.full {
		return sb.max
	}
	if sb.tail >= sb.head {
		return sb.tail - sb.head
	}
	return sb.max - sb.head + sb.tail
}

// line returns the line at the given logical index; 0 is the oldest.
func (sb *scrollback) line(i int) Line {
	if i < 0 || i >= sb.len() {
		return nil
	}
	return sb.lines[(sb.head+i)%sb.max]
}

// all returns the buffered lines oldest to newest. The returned slice is
// freshly allocated; the lines themselves are shared.
func (sb *scrollback) all() []Line {
	n := sb.len()
	if n == 0 {
		return nil
	}
	out := make([]Line, n)
	for i := range n {
		out[i] = sb.lines[(sb.head+i)%sb.max]
	}
	return out
}

func (sb *scrollback) clear() {
	sb.head = 0
	sb.tail = 0
	sb.full = false
	for i := range sb.lines {
		sb.lines[i] = nil
	}
}

// setMax changes the buffer capacity, keeping the most recent lines when
// shrinking.
func (sb *scrollback) setMax(maxLines int) {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackLines
	}
	if maxLines == sb.max {
		return
	}
	oldLen := sb.len()
	keep := min(oldLen, maxLines)
	lines := make([]Line, maxLines)
	for i := range keep {
		lines[i] = sb.lines[(sb.head+oldLen-keep+i)%sb.max]
	}
	sb.lines = lines
	sb.max = maxLines
	sb.head = 0
	sb.tail = keep % maxLines
	sb.full = keep == maxLines
}
