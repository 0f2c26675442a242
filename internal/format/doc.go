// Package format renders values for human-facing output.
//
// # Times
//
// [RelativeTime] turns a scan timestamp into "5m ago", "yesterday" or, once
// a week has passed, a plain date.
//
// # Paths
//
// [DisplayPath] shortens repository paths for tables: paths below the scan
// root are shown relative to it, other paths below $HOME start with "~".
package format
