// Package config handles loading and saving th configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/trailhead/config.yaml
//   - State:   ~/.local/state/trailhead/ (the session state document)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	Autorefresh time.Duration `yaml:"autorefresh,omitempty"` // Re-check interval for page tasks; 0 disables
	Theme       string        `yaml:"theme,omitempty"`       // Glamour style: auto, dark, light
}

// BackendConfig controls the optional demo CRUD backend.
type BackendConfig struct {
	Addr string `yaml:"addr,omitempty"` // Listen address, e.g. "127.0.0.1:8750"
}

// Config is the top-level configuration for th.
type Config struct {
	PagesDir    string        `yaml:"pages_dir,omitempty"`    // Directory holding pages and sidebar.yaml
	SidebarPath string        `yaml:"sidebar_path,omitempty"` // Defaults to <pages_dir>/sidebar.yaml
	StatePath   string        `yaml:"state_path,omitempty"`   // Defaults to <state dir>/state.json
	Locale      string        `yaml:"locale,omitempty"`       // Message catalog locale, e.g. "en_US"
	UI          UIConfig      `yaml:"ui,omitempty"`
	Backend     BackendConfig `yaml:"backend,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PagesDir: "pages",
		Locale:   "en_US",
		UI: UIConfig{
			Autorefresh: 2500 * time.Millisecond,
			Theme:       "auto",
		},
		Backend: BackendConfig{
			Addr: "127.0.0.1:8750",
		},
	}
}

// ConfigDir returns the XDG config directory for th.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "trailhead")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "trailhead")
}

// StateDir returns the XDG state directory for th.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "trailhead")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "trailhead")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.PagesDir = expandHome(cfg.PagesDir)
	cfg.SidebarPath = expandHome(cfg.SidebarPath)
	cfg.StatePath = expandHome(cfg.StatePath)

	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ResolvedSidebarPath returns the sidebar definition path, defaulting to
// sidebar.yaml inside the pages directory.
func (c Config) ResolvedSidebarPath() string {
	if c.SidebarPath != "" {
		return c.SidebarPath
	}
	return filepath.Join(c.PagesDir, "sidebar.yaml")
}

// ResolvedStatePath returns the state document path, defaulting to
// state.json in the XDG state directory.
func (c Config) ResolvedStatePath() string {
	if c.StatePath != "" {
		return c.StatePath
	}
	dir := StateDir()
	if dir == "" {
		return "state.json"
	}
	return filepath.Join(dir, "state.json")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
