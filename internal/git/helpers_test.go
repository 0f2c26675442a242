package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/raphi011/wsi/internal/cmd"
)

// fakeRunner answers git calls from a table keyed by the joined args.
// Unknown keys fail like a git call that exited non-zero.
type fakeRunner struct {
	responses map[string]string

	mu    sync.Mutex
	calls []string
}

func newFakeRunner(responses map[string]string) *fakeRunner {
	return &fakeRunner{responses: responses}
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (Result, bool) {
	key := strings.Join(args, " ")

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	out, ok := f.responses[key]
	if !ok {
		return Result{}, false
	}
	return Result{Stdout: out}, true
}

// called reports whether git was invoked with exactly key as args.
func (f *fakeRunner) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

// runGit runs git in dir and fails the test on error.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if err := cmd.RunContext(context.Background(), dir, "git", args...); err != nil {
		t.Fatalf("git %s: %v", strings.Join(args, " "), err)
	}
}

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// configureTestRepo sets git user config and disables GPG signing.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	runGit(t, repoPath, "config", "user.email", "test@test.com")
	runGit(t, repoPath, "config", "user.name", "Test User")
	runGit(t, repoPath, "config", "commit.gpgsign", "false")
}

// commitFile writes name with content and commits it.
func commitFile(t *testing.T, repoPath, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	runGit(t, repoPath, "add", name)
	runGit(t, repoPath, "commit", "-m", "Add "+name)
}

// setupTestRepo creates a git repo with main branch, initial commit, and git config.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := filepath.Join(resolveTempDir(t), "test-repo")

	runGit(t, "", "init", "-b", "main", repoPath)
	configureTestRepo(t, repoPath)
	commitFile(t, repoPath, "README.md", "# test\n")

	return repoPath
}

// setupTestRepoWithOrigin creates a repo tracking a bare origin remote.
// Returns (repoPath, originPath).
func setupTestRepoWithOrigin(t *testing.T) (string, string) {
	t.Helper()
	tmpDir := resolveTempDir(t)

	originPath := filepath.Join(tmpDir, "origin.git")
	repoPath := filepath.Join(tmpDir, "repo")

	// -b main keeps the default branch stable across git versions
	runGit(t, "", "init", "--bare", "-b", "main", originPath)
	runGit(t, "", "clone", "--quiet", originPath, repoPath)
	configureTestRepo(t, repoPath)
	commitFile(t, repoPath, "README.md", "# test\n")
	runGit(t, repoPath, "push", "--quiet", "-u", "origin", "HEAD")

	return repoPath, originPath
}
