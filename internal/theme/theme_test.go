package theme

import (
	"testing"

	"github.com/gridterm/gridterm/internal/vt"
)

func TestANSIPalette_DisabledFallsBackToBuiltin(t *testing.T) {
	enabled = false
	if got := ANSIPalette(); got != vt.DefaultPalette {
		t.Error("disabled theming should return the built-in palette")
	}
	if Foreground() != vt.DefaultFg {
		t.Error("disabled theming should return the default foreground")
	}
	if Background() != vt.DefaultBg {
		t.Error("disabled theming should return the default background")
	}
}

func TestInitialize_UnknownThemeFallsBackToDefault(t *testing.T) {
	if err := Initialize("no-such-theme-xyz"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer Initialize("")

	if !IsEnabled() {
		t.Fatal("theming should be enabled")
	}
	if Current() == nil {
		t.Fatal("Current() should not be nil after fallback")
	}
	// The palette should be fully populated regardless of which theme won.
	p := ANSIPalette()
	for i, c := range p {
		if c.A == 0 {
			t.Errorf("palette[%d] has zero alpha", i)
		}
	}
}

func TestInitialize_EmptyDisablesTheming(t *testing.T) {
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsEnabled() {
		t.Error("empty theme name should disable theming")
	}
	if Current() != nil {
		t.Error("Current() should be nil when disabled")
	}
}
