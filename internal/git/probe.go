package git

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// gitdirPattern matches the pointer line of a linked work-tree's .git file.
var gitdirPattern = regexp.MustCompile(`(?i)gitdir:\s*(.+)`)

// IsRepository checks if dir is a work-tree root (has .git dir or file).
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	// .git can be a directory (regular repo) or file (linked worktree, submodule)
	return info.IsDir() || info.Mode().IsRegular()
}

// ResolveMetadataDir returns the real git metadata directory of the work-tree at dir.
//
// For a plain repository this is dir/.git. For a linked worktree or submodule
// checkout, .git is a file containing "gitdir: <path>"; the path is resolved
// relative to dir when it is not absolute. ok is false on any read failure.
func ResolveMetadataDir(dir string) (string, bool) {
	gitPath := filepath.Join(dir, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		return gitPath, true
	}
	if !info.Mode().IsRegular() {
		return "", false
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return "", false
	}

	m := gitdirPattern.FindStringSubmatch(string(content))
	if m == nil {
		return "", false
	}
	gitdir := strings.TrimSpace(m[1])
	if gitdir == "" {
		return "", false
	}
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(dir, gitdir)
	}
	return filepath.Clean(gitdir), true
}
