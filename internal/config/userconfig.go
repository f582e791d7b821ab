package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const configFile = "gridterm/config.toml"

// UserConfig represents the user's custom configuration.
type UserConfig struct {
	Terminal   TerminalConfig   `toml:"terminal"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// TerminalConfig holds emulation-related settings.
type TerminalConfig struct {
	ScrollbackLines int    `toml:"scrollback_lines"` // Lines kept in scrollback (default: 10000, min: 100, max: 1000000)
	Shell           string `toml:"shell"`            // Shell to spawn; empty auto-detects from $SHELL and platform defaults
	MaxErrors       int    `toml:"max_errors"`       // Consecutive errors before a hard reset (default: 10)
}

// AppearanceConfig holds appearance-related settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"` // Color theme name (e.g., dracula, nord); empty keeps built-in colors
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Terminal: TerminalConfig{
			ScrollbackLines: DefaultScrollbackLines,
			Shell:           "",
			MaxErrors:       DefaultMaxErrors,
		},
		Appearance: AppearanceConfig{
			Theme: "",
		},
	}
}

// LoadUserConfig loads the user configuration from the XDG config
// directory, creating a commented default file on first run.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return createDefaultConfig()
	}

	// #nosec G304 -- configPath comes from the XDG search.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillMissing(&cfg)
	if errs := validate(&cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Config error: %s\n", e)
		}
		return nil, fmt.Errorf("configuration has %d error(s), please fix and restart", len(errs))
	}
	return &cfg, nil
}

func fillMissing(cfg *UserConfig) {
	def := DefaultConfig()
	if cfg.Terminal.ScrollbackLines == 0 {
		cfg.Terminal.ScrollbackLines = def.Terminal.ScrollbackLines
	}
	if cfg.Terminal.MaxErrors == 0 {
		cfg.Terminal.MaxErrors = def.Terminal.MaxErrors
	}
}

func validate(cfg *UserConfig) []string {
	var errs []string
	if n := cfg.Terminal.ScrollbackLines; n < MinScrollbackLines || n > MaxScrollbackLines {
		errs = append(errs, fmt.Sprintf(
			"[terminal] scrollback_lines = %d out of range %d..%d",
			n, MinScrollbackLines, MaxScrollbackLines))
	}
	if cfg.Terminal.MaxErrors < 1 {
		errs = append(errs, fmt.Sprintf(
			"[terminal] max_errors = %d must be at least 1", cfg.Terminal.MaxErrors))
	}
	return errs
}

// createDefaultConfig creates a default config file in the user's config
// directory.
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# gridterm configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n\n")
	sb.WriteString("# scrollback_lines: Lines kept in the scrollback buffer\n")
	sb.WriteString("#   Range: 100 to 1000000\n")
	sb.WriteString("#   Default: 10000\n")
	sb.WriteString("#\n")
	sb.WriteString("# shell: Shell to spawn in the terminal\n")
	sb.WriteString("#   Leave empty to auto-detect from $SHELL and platform defaults.\n")
	sb.WriteString("#\n")
	sb.WriteString("# max_errors: Consecutive structural errors before a hard reset\n")
	sb.WriteString("#   Default: 10\n")
	sb.WriteString("#\n")
	sb.WriteString("# theme: Color theme name (e.g., dracula, nord)\n")
	sb.WriteString("#   Leave empty to use the built-in palette.\n")
	sb.WriteString("#   The --theme flag overrides this.\n\n")
	sb.Write(data)

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfg, nil
}

// GetConfigPath returns the path to the config file, whether or not it
// exists yet.
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return xdg.ConfigFile(configFile)
	}
	return path, nil
}
