// Package config handles loading and validation of wsi configuration.
//
// Configuration is read from ~/.config/wsi/config.toml (or --config) with
// environment variable overrides for path settings.
//
// # Configuration Sources (highest priority first)
//
//   - .wsi.toml in the scan root: per-root [scan] overrides
//   - WSI_DEFAULT_ROOT env var: directory scanned when no root is given
//   - WSI_CACHE_PATH env var: location of the scan cache
//   - WSI_THEME, WSI_THEME_MODE env vars: color theme and light/dark mode
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - default_root: scan root fallback (must be absolute or ~/...)
//   - scan.max_depth, scan.concurrency, scan.fetch, scan.timeout
//   - scan.skip_dirs: extra directory names never descended into
//   - cache.path: scan cache file (default ~/.wsi/workspace-cache.json)
//   - log.file, log.level: optional rotating JSON log
//   - ui.theme, ui.mode, ui.nerdfont: table colors and status symbols
//
// # Path Validation
//
// Paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
