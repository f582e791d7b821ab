package vt

import (
	"bytes"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"
)

// ActionKind tags a tokenizer action.
type ActionKind uint8

// Tokenizer action kinds.
const (
	// ActionPrint prints one character at the cursor.
	ActionPrint ActionKind = iota
	// ActionExecute executes a C0 control byte.
	ActionExecute
	// ActionCSI dispatches a parameterized control sequence.
	ActionCSI
	// ActionESC dispatches a simple escape sequence.
	ActionESC
	// ActionOSC dispatches an out-of-band string command.
	ActionOSC
	// ActionDCS is the hook for device control strings. The state machine
	// accepts it but does not act on it.
	ActionDCS
)

// omitted marks a CSI parameter that was not supplied; consumers substitute
// the operation's default.
const omitted = -1

// Action is a single semantic action produced by the tokenizer. Which
// fields are meaningful depends on Kind. The state machine consumes actions
// through a plain branch, keeping it a pure function of (state, action).
type Action struct {
	Kind ActionKind

	// Rune is the printed character (ActionPrint).
	Rune rune
	// Byte is the control byte (ActionExecute).
	Byte byte

	// Final, Prefix, and Intermed identify a CSI or ESC sequence; Params
	// carries its numeric parameters with omitted entries marked
	// (ActionCSI, ActionESC, ActionDCS).
	Final    byte
	Prefix   byte
	Intermed byte
	Params   []int

	// Cmd is the parsed OSC command identifier, -1 when non-numeric;
	// Data holds the semicolon-separated fields including the identifier
	// itself; Terminated reports that the command was properly closed
	// (ActionOSC).
	Cmd        int
	Data       [][]byte
	Terminated bool
}

// Tokenizer converts a raw byte stream into tagged semantic actions. It
// buffers partial multi-byte sequences across calls and never fails;
// malformed input is dropped by the underlying parser and unknown
// sequences surface as actions the consumer ignores.
type Tokenizer struct {
	p       *ansi.Parser
	actions []Action
}

// maxOscData bounds string-command payloads so a hostile stream cannot
// grow the parser buffer without limit.
const maxOscData = 64 * 1024

// NewTokenizer returns a tokenizer with empty buffered state.
func NewTokenizer() *Tokenizer {
	t := &Tokenizer{}
	p := ansi.NewParser()
	p.SetParamsSize(parser.MaxParamsSize)
	p.SetDataSize(maxOscData)
	p.SetHandler(ansi.Handler{
		Print: func(r rune) {
			t.actions = append(t.actions, Action{Kind: ActionPrint, Rune: r})
		},
		Execute: func(b byte) {
			t.actions = append(t.actions, Action{Kind: ActionExecute, Byte: b})
		},
		HandleCsi: func(cmd ansi.Cmd, params ansi.Params) {
			t.actions = append(t.actions, Action{
				Kind:     ActionCSI,
				Final:    cmd.Final(),
				Prefix:   cmd.Prefix(),
				Intermed: cmd.Intermediate(),
				Params:   flattenParams(params),
			})
		},
		HandleEsc: func(cmd ansi.Cmd) {
			t.actions = append(t.actions, Action{
				Kind:     ActionESC,
				Final:    cmd.Final(),
				Intermed: cmd.Intermediate(),
			})
		},
		HandleOsc: func(cmd int, data []byte) {
			t.actions = append(t.actions, Action{
				Kind:       ActionOSC,
				Cmd:        cmd,
				Data:       splitOscData(data),
				Terminated: true,
			})
		},
		HandleDcs: func(cmd ansi.Cmd, params ansi.Params, _ []byte) {
			t.actions = append(t.actions, Action{
				Kind:     ActionDCS,
				Final:    cmd.Final(),
				Intermed: cmd.Intermediate(),
				Params:   flattenParams(params),
			})
		},
	})
	t.p = p
	return t
}

// Tokenize consumes a chunk of bytes and returns the actions completed by
// it. Partial sequences stay buffered for the next call. The returned
// slice is reused by the next Tokenize call; consume it before then.
func (t *Tokenizer) Tokenize(b []byte) []Action {
	t.actions = t.actions[:0]
	for i := range b {
		t.p.Advance(b[i])
	}
	return t.actions
}

// flattenParams copies parser parameters into a plain int slice, marking
// omitted entries. Subparameters keep their leading value; the state
// machine only consumes the semicolon form.
func flattenParams(params ansi.Params) []int {
	if len(params) == 0 {
		return nil
	}
	out := make([]int, len(params))
	for i, p := range params {
		out[i] = p.Param(omitted)
	}
	return out
}

// splitOscData splits an OSC payload into its semicolon-separated fields,
// copying out of the parser's reusable buffer.
func splitOscData(data []byte) [][]byte {
	parts := bytes.Split(data, []byte{';'})
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = append([]byte(nil), p...)
	}
	return out
}
