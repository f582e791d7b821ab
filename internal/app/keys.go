package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// namedKeySequences maps bubbletea key names to the byte sequences a
// VT100-style terminal sends for them.
var namedKeySequences = map[string]string{
	"enter":     "\r",
	"tab":       "\t",
	"backspace": "\x7f",
	"esc":       "\x1b",
	"space":     " ",
	"up":        "\x1b[A",
	"down":      "\x1b[B",
	"right":     "\x1b[C",
	"left":      "\x1b[D",
	"home":      "\x1b[H",
	"end":       "\x1b[F",
	"insert":    "\x1b[2~",
	"delete":    "\x1b[3~",
	"pgup":      "\x1b[5~",
	"pgdown":    "\x1b[6~",
	"shift+tab": "\x1b[Z",
	"f1":        "\x1bOP",
	"f2":        "\x1bOQ",
	"f3":        "\x1bOR",
	"f4":        "\x1bOS",
	"f5":        "\x1b[15~",
	"f6":        "\x1b[17~",
	"f7":        "\x1b[18~",
	"f8":        "\x1b[19~",
	"f9":        "\x1b[20~",
	"f10":       "\x1b[21~",
	"f11":       "\x1b[23~",
	"f12":       "\x1b[24~",
}

// keyBytes converts a key press into the raw bytes to write to the child
// process. It returns nil for keys that have no terminal encoding.
func keyBytes(msg tea.KeyPressMsg) []byte {
	name := msg.String()

	if seq, ok := namedKeySequences[name]; ok {
		return []byte(seq)
	}

	// Control characters: ctrl+a through ctrl+z map to 0x01..0x1a, plus
	// the handful of punctuation controls shells actually use.
	if ctrl, ok := strings.CutPrefix(name, "ctrl+"); ok {
		switch {
		case len(ctrl) == 1 && ctrl[0] >= 'a' && ctrl[0] <= 'z':
			return []byte{ctrl[0] - 'a' + 1}
		case ctrl == "space", ctrl == "@":
			return []byte{0}
		case ctrl == "[":
			return []byte{0x1b}
		case ctrl == "\\":
			return []byte{0x1c}
		case ctrl == "]":
			return []byte{0x1d}
		case ctrl == "^":
			return []byte{0x1e}
		case ctrl == "_":
			return []byte{0x1f}
		}
		return nil
	}

	// Alt sends ESC followed by the plain key.
	if alt, ok := strings.CutPrefix(name, "alt+"); ok {
		if seq, ok := namedKeySequences[alt]; ok {
			return append([]byte{0x1b}, seq...)
		}
		if len(alt) == 1 {
			return append([]byte{0x1b}, alt...)
		}
		return nil
	}

	if msg.Text != "" {
		return []byte(msg.Text)
	}
	return nil
}
