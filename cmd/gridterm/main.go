// Package main implements gridterm, a terminal emulator with scrollback,
// live reflow on resize, and a self-healing escape-sequence engine.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/spf13/cobra"

	"github.com/gridterm/gridterm/internal/config"
	"github.com/gridterm/gridterm/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	debugMode       bool
	themeName       string
	listThemes      bool
	previewTheme    string
	shellPath       string
	scrollbackLines int
	maxErrors       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridterm",
		Short: "A terminal emulator with reflow and crash recovery",
		Long: `gridterm - a terminal emulator for your terminal

Runs a shell on a pseudo-terminal and renders it through a
self-healing VT engine: scrollback, live reflow on resize, and
automatic recovery when applications leave the screen in a bad state.`,
		Example: `  # Run gridterm
  gridterm

  # Run with debug logging
  gridterm --debug

  # Run a specific shell
  gridterm --shell /bin/fish

  # Run with a specific theme
  gridterm --theme dracula

  # List all available themes
  gridterm --list-themes

  # Preview a theme's colors
  gridterm --preview-theme dracula

  # Edit configuration
  gridterm config edit`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if previewTheme != "" {
				return previewThemeColors(previewTheme)
			}

			if listThemes {
				if err := theme.Initialize("default"); err != nil {
					return fmt.Errorf("failed to initialize themes: %w", err)
				}
				for _, t := range tint.TintIDs() {
					fmt.Println(t)
				}
				return nil
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to a file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use standard terminal colors without theming")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&previewTheme, "preview-theme", "", "Preview a theme's 16 ANSI colors")
	rootCmd.PersistentFlags().StringVar(&shellPath, "shell", "", "Shell to run (default: from config or $SHELL)")
	rootCmd.PersistentFlags().IntVar(&scrollbackLines, "scrollback-lines", 0, "Number of lines to keep in scrollback buffer (default: from config or 10000, min: 100, max: 1000000)")
	rootCmd.PersistentFlags().IntVar(&maxErrors, "max-errors", 0, "Consecutive invalid states before a hard reset (default: from config or 10)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gridterm configuration",
		Long:  `Manage gridterm configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the gridterm configuration file`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the gridterm configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the gridterm configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}

func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

func editConfigFile() error {
	// Loading first guarantees the file exists before the editor opens it.
	if _, err := config.LoadUserConfig(); err != nil {
		return fmt.Errorf("failed to prepare config file: %w", err)
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found: set $EDITOR or install vim, nano, or emacs")
	}

	cmd := exec.Command(editor, path) // #nosec G204 -- editor comes from the user's own environment.
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	for _, editor := range []string{"vim", "vi", "nano", "emacs"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}
	return ""
}

func resetConfigToDefaults() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}

	fmt.Printf("This will overwrite %s with defaults. Continue? [y/N] ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config: %w", err)
	}
	// Loading with no file on disk recreates the default.
	if _, err := config.LoadUserConfig(); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	fmt.Println("Configuration reset to defaults.")
	return nil
}

// previewThemeColors prints a theme's 16 ANSI colors as color blocks,
// degrading gracefully on terminals with limited color support.
func previewThemeColors(name string) error {
	if err := theme.Initialize(name); err != nil {
		return fmt.Errorf("failed to initialize theme %q: %w", name, err)
	}
	if !theme.IsEnabled() {
		return fmt.Errorf("unknown theme %q (use --list-themes)", name)
	}

	w := colorprofile.NewWriter(os.Stdout, os.Environ())
	palette := theme.ANSIPalette()
	names := []string{
		"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
		"bright-black", "bright-red", "bright-green", "bright-yellow",
		"bright-blue", "bright-magenta", "bright-cyan", "bright-white",
	}

	fmt.Fprintf(w, "%s\n\n", name)
	for i, c := range palette {
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm      \x1b[0m  %2d  %-14s #%02x%02x%02x\n",
			c.R, c.G, c.B, i, names[i], c.R, c.G, c.B)
	}
	fg, bg := theme.Foreground(), theme.Background()
	fmt.Fprintf(w, "\nforeground #%02x%02x%02x  background #%02x%02x%02x\n",
		fg.R, fg.G, fg.B, bg.R, bg.G, bg.B)
	return nil
}
