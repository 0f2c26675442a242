package git

import (
	"context"
	"strconv"
	"strings"
)

// Status holds the synchronization flags of a work-tree.
type Status struct {
	Ahead    bool // HEAD has commits the upstream lacks
	Behind   bool // upstream has commits HEAD lacks
	Unstaged bool // modified tracked files or untracked files
}

// EvalOptions tunes Evaluate.
type EvalOptions struct {
	SkipFetch bool // don't refresh remote-tracking refs before counting
}

// Evaluate derives the Status of the work-tree at dir.
//
// Every step is best-effort: a failing git call leaves its flags false and
// evaluation continues with the next step.
func Evaluate(ctx context.Context, r Runner, dir, branch string, opts EvalOptions) Status {
	var st Status

	// Not trimmed: the leading space of " M file" is the index column.
	if res, ok := r.Run(ctx, dir, "status", "--porcelain"); ok {
		st.Unstaged = HasUnstagedChanges(res.Stdout)
	}

	if !opts.SkipFetch {
		_, _ = r.Run(ctx, dir, "fetch", "--quiet")
	}

	upstream, ok := ResolveUpstream(ctx, r, dir, branch)
	if !ok {
		return st
	}

	if out, ok := output(ctx, r, dir, "rev-list", "--left-right", "--count", upstream+"...HEAD"); ok {
		behind, ahead := ParseLeftRightCount(out)
		st.Ahead = ahead > 0
		st.Behind = behind > 0
	}

	return st
}

// HasUnstagedChanges reports whether porcelain v1 status output contains an
// untracked entry ("??") or an entry with a work-tree change (second column
// not a space). Staged-only changes don't count.
func HasUnstagedChanges(porcelain string) bool {
	for _, line := range strings.Split(porcelain, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			return true
		}
		if len(line) >= 2 && line[1] != ' ' {
			return true
		}
	}
	return false
}

// ResolveUpstream returns the upstream ref to compare HEAD against.
//
// The configured tracking ref (@{u}) wins. Without one, a named branch falls
// back to origin/<branch> when a remote called origin exists, even if that
// remote branch is unrelated to the local one.
func ResolveUpstream(ctx context.Context, r Runner, dir, branch string) (string, bool) {
	if up, ok := output(ctx, r, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"); ok {
		return up, true
	}

	if branch == "" || branch == DetachedBranch {
		return "", false
	}

	remotes, ok := output(ctx, r, dir, "remote")
	if !ok {
		return "", false
	}
	for _, name := range strings.Split(remotes, "\n") {
		if strings.TrimSpace(name) == "origin" {
			return "origin/" + branch, true
		}
	}
	return "", false
}

// ParseLeftRightCount parses "rev-list --left-right --count A...B" output.
// Missing or malformed counts are 0.
func ParseLeftRightCount(out string) (left, right int) {
	fields := strings.Fields(out)
	if len(fields) > 0 {
		left, _ = strconv.Atoi(fields[0])
	}
	if len(fields) > 1 {
		right, _ = strconv.Atoi(fields[1])
	}
	return left, right
}

// ReadOrigin returns the URL of the origin remote.
func ReadOrigin(ctx context.Context, r Runner, dir string) (string, bool) {
	if url, ok := output(ctx, r, dir, "remote", "get-url", "origin"); ok {
		return url, true
	}
	return output(ctx, r, dir, "config", "--get", "remote.origin.url")
}
