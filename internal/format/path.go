package format

import (
	"os"
	"path/filepath"
	"strings"
)

// DisplayPath shortens path for display.
// Paths inside root are made relative to it ("." for root itself); otherwise
// a $HOME prefix is replaced with "~". root may be empty.
func DisplayPath(path, root string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rel
		}
	}
	return ShortenHome(path)
}

// ShortenHome replaces a leading home directory with "~".
func ShortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}
