package config

// Overrides contains CLI flag values that can override user config. Zero
// values mean the flag was not set and the user config default applies.
type Overrides struct {
	// ScrollbackLines overrides the scrollback buffer size (0 means unset).
	ScrollbackLines int

	// Shell overrides the spawned shell.
	Shell string

	// MaxErrors overrides the hard-reset escalation threshold (0 means
	// unset).
	MaxErrors int

	// ThemeName is the theme to load.
	ThemeName string
}

// ApplyOverrides merges CLI flag overrides and user config into the
// package-level effective settings. CLI flags win; a nil userConfig
// applies only the flags.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	if overrides.ScrollbackLines > 0 {
		ScrollbackLines = clampScrollback(overrides.ScrollbackLines)
	} else if userConfig != nil && userConfig.Terminal.ScrollbackLines > 0 {
		ScrollbackLines = clampScrollback(userConfig.Terminal.ScrollbackLines)
	}

	if overrides.Shell != "" {
		PreferredShell = overrides.Shell
	} else if userConfig != nil && userConfig.Terminal.Shell != "" {
		PreferredShell = userConfig.Terminal.Shell
	}

	if overrides.MaxErrors > 0 {
		MaxErrors = overrides.MaxErrors
	} else if userConfig != nil && userConfig.Terminal.MaxErrors > 0 {
		MaxErrors = userConfig.Terminal.MaxErrors
	}

	if overrides.ThemeName != "" {
		ThemeName = overrides.ThemeName
	} else if userConfig != nil && userConfig.Appearance.Theme != "" {
		ThemeName = userConfig.Appearance.Theme
	}
}

func clampScrollback(n int) int {
	if n < MinScrollbackLines {
		return MinScrollbackLines
	}
	if n > MaxScrollbackLines {
		return MaxScrollbackLines
	}
	return n
}
