package vt

// Event is a semantic notification produced while processing terminal
// output. Events are queued during a processing pass and delivered to the
// terminal's sink, in order, once the pass completes.
type Event interface {
	isEvent()
}

// TitleEvent reports that the terminal title changed.
type TitleEvent struct {
	Title string
}

// BellEvent reports an audible bell.
type BellEvent struct{}

// ClipboardCopyEvent carries text the application asked to place on the
// clipboard (OSC 52).
type ClipboardCopyEvent struct {
	Text string
}

// ClipboardPasteEvent reports that the application requested the clipboard
// contents.
type ClipboardPasteEvent struct{}

// ColorEvent reports that the terminal's default colors changed.
type ColorEvent struct{}

// CursorEvent reports the cursor position at the end of a processing pass
// during which it moved.
type CursorEvent struct {
	Row, Col int
}

// RedrawEvent signals that screen content changed and the consumer should
// re-render. It is always the last event of a processing pass.
type RedrawEvent struct{}

func (TitleEvent) isEvent()          {}
func (BellEvent) isEvent()           {}
func (ClipboardCopyEvent) isEvent()  {}
func (ClipboardPasteEvent) isEvent() {}
func (ColorEvent) isEvent()          {}
func (CursorEvent) isEvent()         {}
func (RedrawEvent) isEvent()         {}

// EventSink receives events drained after each processing pass. A nil sink
// discards events.
type EventSink func(Event)
