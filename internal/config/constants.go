// Package config provides configuration constants and user settings.
package config

import "time"

const (
	// DefaultScrollbackLines is the scrollback buffer size used when the
	// user configures nothing.
	DefaultScrollbackLines = 10000

	// MinScrollbackLines is the smallest accepted scrollback size.
	MinScrollbackLines = 100

	// MaxScrollbackLines is the largest accepted scrollback size.
	MaxScrollbackLines = 1000000

	// DefaultMaxErrors is the consecutive structural-error threshold before
	// the emulator escalates a soft reset to a hard reset.
	DefaultMaxErrors = 10

	// PTYReadBufferSize is the chunk size for draining PTY output.
	PTYReadBufferSize = 32 * 1024

	// ProcessWaitDelay is the delay when waiting for process cleanup, so
	// final output is still captured after the child exits.
	ProcessWaitDelay = 50 * time.Millisecond
)

// Effective settings after merging defaults, user config, and CLI flags.
var (
	// ScrollbackLines is the effective scrollback buffer size.
	ScrollbackLines = DefaultScrollbackLines

	// MaxErrors is the effective hard-reset escalation threshold.
	MaxErrors = DefaultMaxErrors

	// PreferredShell is the shell to spawn; empty means auto-detect.
	PreferredShell = ""

	// ThemeName is the color theme to apply; empty keeps the built-in
	// palette.
	ThemeName = ""
)
