package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-root override file read from a scan root.
const LocalConfigFileName = ".wsi.toml"

// LocalConfig holds per-root scan overrides from .wsi.toml.
// Pointer fields indicate "not set" (inherit from global).
type LocalConfig struct {
	Scan LocalScan `toml:"scan"`
}

// LocalScan holds local scan overrides
type LocalScan struct {
	MaxDepth *int     `toml:"max_depth"`
	Fetch    *bool    `toml:"fetch"`
	SkipDirs []string `toml:"skip_dirs"` // appended to global
}

// LoadLocal reads a per-root .wsi.toml config from the given scan root.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(root string) (*LocalConfig, error) {
	configFile := filepath.Join(root, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	if local.Scan.MaxDepth != nil && *local.Scan.MaxDepth < 0 {
		return nil, fmt.Errorf("invalid scan.max_depth %d in %s: must be >= 0", *local.Scan.MaxDepth, configFile)
	}
	if err := validateSkipDirs(local.Scan.SkipDirs, configFile); err != nil {
		return nil, err
	}

	return &local, nil
}

// defaultLocalConfig is the template for wsi config init --local
const defaultLocalConfig = `# wsi local config (per-root overrides)
# Place this file in a directory you scan with "wsi scan".
# Settings here override ~/.config/wsi/config.toml for scans of this root only.

# [scan]
# max_depth = 2
# fetch = false
# skip_dirs = ["archive"]   # added to the global skip_dirs
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}
