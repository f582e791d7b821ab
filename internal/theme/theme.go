// Package theme provides color themes for the gridterm terminal.
package theme

import (
	"image/color"
	"log"

	tint "github.com/lrstanley/bubbletint/v2"

	"github.com/gridterm/gridterm/internal/vt"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at startup. An empty name disables theming and keeps the
// emulator's built-in colors.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	// Custom themes can shadow built-in ids.
	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Printf("Warning: error loading custom themes: %v", err)
		}
	}

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}
	return nil
}

// IsEnabled returns true if theming is enabled.
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme, or nil when theming is
// disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// ANSIPalette returns the 16 ANSI colors from the current theme, for
// injection into the emulator.
func ANSIPalette() [16]color.RGBA {
	t := Current()
	if t == nil {
		return vt.DefaultPalette
	}
	src := [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
	var out [16]color.RGBA
	for i, c := range src {
		out[i] = toRGBA(c, vt.DefaultPalette[i])
	}
	return out
}

// Foreground returns the default text color.
func Foreground() color.RGBA {
	t := Current()
	if t == nil {
		return vt.DefaultFg
	}
	return toRGBA(t.Fg, vt.DefaultFg)
}

// Background returns the default background color.
func Background() color.RGBA {
	t := Current()
	if t == nil {
		return vt.DefaultBg
	}
	return toRGBA(t.Bg, vt.DefaultBg)
}

// Cursor returns the cursor color.
func Cursor() color.RGBA {
	t := Current()
	if t == nil {
		return vt.DefaultFg
	}
	return toRGBA(t.Cursor, vt.DefaultFg)
}

func toRGBA(c color.Color, fallback color.RGBA) color.RGBA {
	if c == nil {
		return fallback
	}
	rgba, ok := color.RGBAModel.Convert(c).(color.RGBA)
	if !ok {
		return fallback
	}
	return rgba
}
