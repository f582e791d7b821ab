package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/gridterm/gridterm/internal/app"
	"github.com/gridterm/gridterm/internal/config"
	"github.com/gridterm/gridterm/internal/pty"
	"github.com/gridterm/gridterm/internal/theme"
	"github.com/gridterm/gridterm/internal/vt"
)

func runLocal() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("gridterm must run in a terminal")
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		userConfig = config.DefaultConfig()
	}

	config.ApplyOverrides(config.Overrides{
		ScrollbackLines: scrollbackLines,
		Shell:           shellPath,
		MaxErrors:       maxErrors,
		ThemeName:       themeName,
	}, userConfig)

	if err := theme.Initialize(config.ThemeName); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: theme %q unavailable: %v\n", config.ThemeName, err)
	}

	logger, logPath, closeLog := setupLogging()
	defer closeLog()
	if logPath != "" {
		fmt.Fprintf(os.Stderr, "Debug log: %s\n", logPath)
	}

	handle, err := pty.Spawn(pty.Options{
		Program: config.PreferredShell,
		Size:    pty.Size{Rows: 24, Cols: 80},
	})
	if err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	defer func() { _ = handle.Close() }()

	model := app.New(handle, logger)
	if theme.IsEnabled() {
		model.Terminal().SetPalette(theme.ANSIPalette())
		model.Terminal().SetDefaultColors(theme.Foreground(), theme.Background())
	}

	p := tea.NewProgram(model, tea.WithoutSignalHandler())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// setupLogging returns the emulator logger. Logging goes to a file, never
// stderr: the TUI owns the screen while the program runs. Without --debug
// the logger is nil and the emulator stays silent.
func setupLogging() (vt.Logger, string, func()) {
	if !debugMode {
		return nil, "", func() {}
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("gridterm-%s.log", uuid.NewString()[:8]))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		return nil, "", func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridterm",
	})
	return logger, path, func() { _ = f.Close() }
}
