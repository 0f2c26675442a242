package git

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DetachedBranch is reported when HEAD points directly at a commit.
const DetachedBranch = "detached"

var headRefPattern = regexp.MustCompile(`(?i)ref:\s*(.+)`)

// ReadBranch reads HEAD from the work-tree's metadata directory and returns
// the leaf name of the referenced branch ("refs/heads/feature/x" -> "x"),
// or DetachedBranch when HEAD holds a raw commit hash.
// ok is false if HEAD cannot be read.
func ReadBranch(dir string) (string, bool) {
	metaDir, ok := ResolveMetadataDir(dir)
	if !ok {
		metaDir = filepath.Join(dir, ".git")
	}

	head, err := os.ReadFile(filepath.Join(metaDir, "HEAD"))
	if err != nil {
		return "", false
	}

	m := headRefPattern.FindStringSubmatch(string(head))
	if m == nil {
		return DetachedBranch, true
	}

	ref := strings.TrimSpace(m[1])
	leaf := ref[strings.LastIndexAny(ref, `/\`)+1:]
	if leaf == "" {
		return "", false
	}
	return leaf, true
}
