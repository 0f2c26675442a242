package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Valid enum values for configuration fields.
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidThemeNames = []string{"none", "default", "dracula", "nord", "gruvbox", "catppuccin"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// validate checks a parsed config before paths are expanded.
func validate(cfg *Config) error {
	if err := ValidatePath(cfg.DefaultRoot, "default_root"); err != nil {
		return err
	}
	if err := ValidatePath(cfg.Cache.Path, "cache.path"); err != nil {
		return err
	}
	if err := ValidatePath(cfg.Log.File, "log.file"); err != nil {
		return err
	}

	if cfg.Scan.MaxDepth < 0 {
		return fmt.Errorf("invalid scan.max_depth %d: must be >= 0", cfg.Scan.MaxDepth)
	}
	if cfg.Scan.Concurrency < 1 {
		return fmt.Errorf("invalid scan.concurrency %d: must be >= 1", cfg.Scan.Concurrency)
	}
	if cfg.Scan.Timeout != "" {
		d, err := time.ParseDuration(cfg.Scan.Timeout)
		if err != nil {
			return fmt.Errorf("invalid scan.timeout %q: %w", cfg.Scan.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid scan.timeout %q: must be positive", cfg.Scan.Timeout)
		}
	}
	if err := validateSkipDirs(cfg.Scan.SkipDirs, ""); err != nil {
		return err
	}

	if err := validateEnum(cfg.Log.Level, "log.level", ValidLogLevels); err != nil {
		return err
	}
	if err := validateEnum(cfg.UI.Theme, "ui.theme", ValidThemeNames); err != nil {
		return err
	}
	return validateEnum(cfg.UI.Mode, "ui.mode", ValidThemeModes)
}

// validateSkipDirs checks that skip_dirs entries are plain directory names.
func validateSkipDirs(names []string, contextInfo string) error {
	for i, name := range names {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
			if contextInfo != "" {
				return fmt.Errorf("invalid scan.skip_dirs[%d] %q in %s: must be a directory name", i, name, contextInfo)
			}
			return fmt.Errorf("invalid scan.skip_dirs[%d] %q: must be a directory name", i, name)
		}
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
