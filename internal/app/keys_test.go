package app

import (
	"bytes"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestKeyBytes_NamedKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyPressMsg
		want []byte
	}{
		{"enter", tea.KeyPressMsg{Code: tea.KeyEnter}, []byte("\r")},
		{"tab", tea.KeyPressMsg{Code: tea.KeyTab}, []byte("\t")},
		{"backspace", tea.KeyPressMsg{Code: tea.KeyBackspace}, []byte{0x7f}},
		{"escape", tea.KeyPressMsg{Code: tea.KeyEscape}, []byte{0x1b}},
		{"up arrow", tea.KeyPressMsg{Code: tea.KeyUp}, []byte("\x1b[A")},
		{"down arrow", tea.KeyPressMsg{Code: tea.KeyDown}, []byte("\x1b[B")},
		{"page up", tea.KeyPressMsg{Code: tea.KeyPgUp}, []byte("\x1b[5~")},
		{"delete", tea.KeyPressMsg{Code: tea.KeyDelete}, []byte("\x1b[3~")},
		{"f1", tea.KeyPressMsg{Code: tea.KeyF1}, []byte("\x1bOP")},
		{"f5", tea.KeyPressMsg{Code: tea.KeyF5}, []byte("\x1b[15~")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keyBytes(tt.key)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("keyBytes(%s) = %q, want %q", tt.key.String(), got, tt.want)
			}
		})
	}
}

func TestKeyBytes_PlainTextPassesThrough(t *testing.T) {
	got := keyBytes(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if string(got) != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}

	got = keyBytes(tea.KeyPressMsg{Code: 'A', Text: "A", Mod: tea.ModShift})
	if string(got) != "A" {
		t.Errorf("expected %q, got %q", "A", got)
	}
}

func TestKeyBytes_ControlCharacters(t *testing.T) {
	tests := []struct {
		key  tea.KeyPressMsg
		want byte
	}{
		{tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl}, 0x01},
		{tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}, 0x03},
		{tea.KeyPressMsg{Code: 'z', Mod: tea.ModCtrl}, 0x1a},
		{tea.KeyPressMsg{Code: tea.KeySpace, Mod: tea.ModCtrl}, 0x00},
	}

	for _, tt := range tests {
		got := keyBytes(tt.key)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("keyBytes(%s) = %q, want %q", tt.key.String(), got, []byte{tt.want})
		}
	}
}

func TestKeyBytes_AltPrefixesEscape(t *testing.T) {
	got := keyBytes(tea.KeyPressMsg{Code: 'b', Mod: tea.ModAlt})
	if !bytes.Equal(got, []byte{0x1b, 'b'}) {
		t.Errorf("alt+b = %q, want ESC b", got)
	}

	got = keyBytes(tea.KeyPressMsg{Code: tea.KeyUp, Mod: tea.ModAlt})
	if !bytes.Equal(got, []byte("\x1b\x1b[A")) {
		t.Errorf("alt+up = %q, want ESC ESC [ A", got)
	}
}
