package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ScanConfig holds scan-related configuration
type ScanConfig struct {
	MaxDepth    int      `toml:"max_depth"`
	Concurrency int      `toml:"concurrency"` // concurrent repository inspections
	Fetch       bool     `toml:"fetch"`       // refresh remote-tracking refs before counting
	Timeout     string   `toml:"timeout"`     // per git call, e.g. "3s"
	SkipDirs    []string `toml:"skip_dirs"`   // added to node_modules, .git, .svn, .hg
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Path string `toml:"path"` // empty = ~/.wsi/workspace-cache.json
}

// LogConfig holds the optional log file sink
type LogConfig struct {
	File       string `toml:"file"`  // empty disables the file sink
	Level      string `toml:"level"` // debug, info, warn, error
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// UIConfig holds terminal styling
type UIConfig struct {
	Theme    string `toml:"theme"`    // preset name, see ValidThemeNames
	Mode     string `toml:"mode"`     // light, dark, or auto
	Nerdfont bool   `toml:"nerdfont"` // use nerd font status symbols
}

// Config holds the wsi configuration
type Config struct {
	DefaultRoot string      `toml:"default_root"` // scan root when none is given
	Scan        ScanConfig  `toml:"scan"`
	Cache       CacheConfig `toml:"cache"`
	Log         LogConfig   `toml:"log"`
	UI          UIConfig    `toml:"ui"`
}

// Defaults for scan settings.
const (
	DefaultMaxDepth    = 4
	DefaultConcurrency = 8
	DefaultTimeout     = "3s"
	DefaultLogLevel    = "info"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		Scan: ScanConfig{
			MaxDepth:    DefaultMaxDepth,
			Concurrency: DefaultConcurrency,
			Fetch:       true,
			Timeout:     DefaultTimeout,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// GitTimeout returns the parsed per-call git timeout.
// An empty or invalid value yields the default.
func (s ScanConfig) GitTimeout() time.Duration {
	if d, err := time.ParseDuration(s.Timeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultTimeout)
	return d
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	// Allow ~ paths
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wsi", "config.toml"), nil
}

// Load reads config from path, or ~/.config/wsi/config.toml when path is empty.
// Returns Default() with env overrides if the file doesn't exist (no error).
// If the file exists but is invalid, the error is returned together with the
// defaults so callers can warn and carry on.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return fallback(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback(), nil
		}
		return fallback(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fallback(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return fallback(), err
	}
	if err := validate(&cfg); err != nil {
		return fallback(), fmt.Errorf("%s: %w", path, err)
	}
	if err := expandPaths(&cfg); err != nil {
		return fallback(), err
	}

	return cfg, nil
}

// fallback is Default() with env overrides that pass validation.
func fallback() Config {
	cfg := Default()
	env := Default()
	if applyEnvOverrides(&env) == nil && validate(&env) == nil && expandPaths(&env) == nil {
		cfg = env
	}
	return cfg
}

// applyEnvOverrides applies WSI_* environment variables on top of file settings.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WSI_DEFAULT_ROOT"); v != "" {
		cfg.DefaultRoot = v
	}
	if v := os.Getenv("WSI_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("WSI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("WSI_THEME_MODE"); v != "" {
		cfg.UI.Mode = v
	}
	return nil
}

// expandPaths expands ~ in path settings (shell doesn't expand in config files)
func expandPaths(cfg *Config) error {
	for _, p := range []struct {
		field string
		value *string
	}{
		{"default_root", &cfg.DefaultRoot},
		{"cache.path", &cfg.Cache.Path},
		{"log.file", &cfg.Log.File},
	} {
		expanded, err := ExpandPath(*p.value)
		if err != nil {
			return fmt.Errorf("expand %s: %w", p.field, err)
		}
		*p.value = expanded
	}
	return nil
}

// configKey is the context key for *Config
type configKey struct{}

// WithConfig returns a new context with the config stored in it.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config from context, or nil.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

// workDirKey is the context key for the working directory
type workDirKey struct{}

// WithWorkDir returns a new context carrying dir as working directory.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the working directory from context,
// falling back to os.Getwd.
func WorkDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok && dir != "" {
		return dir
	}
	wd, _ := os.Getwd()
	return wd
}

const defaultConfig = `# wsi configuration

# Directory scanned by "wsi scan" when no root is given.
# Must be an absolute path or start with ~ (no relative paths like "." or "..")
# Falls back to the current directory when unset.
# default_root = "~/Code"

[scan]
# Directory levels below the root that are inspected (the root is level 0)
max_depth = 4

# Repositories inspected concurrently (each runs a few git processes)
concurrency = 8

# Run "git fetch" before computing ahead/behind. Disable for offline scans
# or use "wsi scan --no-fetch".
fetch = true

# Upper bound for a single git call; slow remotes are skipped, not waited for
timeout = "3s"

# Directory names never descended into, in addition to
# node_modules, .git, .svn and .hg
# skip_dirs = ["vendor", "target"]

[cache]
# Scan results saved with "wsi scan --save"
# path = "~/.wsi/workspace-cache.json"

[log]
# JSON log file with every git command and debug record. Empty disables it.
# file = "~/.wsi/wsi.log"
level = "info"   # debug, info, warn, or error
# max_size_mb = 10
# max_backups = 3
# max_age_days = 28

[ui]
# Color theme: default, dracula, nord, gruvbox, catppuccin, or none
# theme = "default"
# mode = "auto"      # light, dark, or auto (detect terminal background)
# nerdfont = false   # nerd font symbols for ahead/behind/dirty markers
`

// DefaultConfig returns the commented default configuration file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at path (or the default location)
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(path string, force bool) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
