package git

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/raphi011/wsi/internal/cmd"
	"github.com/raphi011/wsi/internal/log"
)

// DefaultTimeout bounds a single git invocation so a hung remote cannot stall a scan.
const DefaultTimeout = 3 * time.Second

// Result holds the captured output of a successful git invocation.
type Result struct {
	Stdout string
	Stderr string
}

// Runner executes git with dir as working directory.
// ok is false when git could not be started, exited non-zero or timed out;
// callers treat all three the same way: the signal is skipped.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (res Result, ok bool)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct {
	Timeout time.Duration
}

// NewRunner returns an ExecRunner with the given per-call timeout.
// A zero or negative timeout means DefaultTimeout.
func NewRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// gitEnv keeps git from blocking on credential prompts.
var gitEnv = []string{"GIT_TERMINAL_PROMPT=0"}

// batchSSH keeps ssh from prompting for passphrases or host keys.
const batchSSH = "GIT_SSH_COMMAND=ssh -oBatchMode=yes"

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (Result, bool) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env := gitEnv
	if len(args) > 0 && args[0] == "fetch" && !customSSH(ctx, dir) {
		env = append(env[:len(env):len(env)], batchSSH)
	}

	stdout, stderr, err := cmd.CaptureContext(ctx, dir, env, "git", args...)
	if err != nil {
		log.FromContext(ctx).Debug("git unavailable", "dir", dir, "args", strings.Join(args, " "), "err", err)
		return Result{}, false
	}
	return Result{Stdout: string(stdout), Stderr: string(stderr)}, true
}

// customSSH reports whether the user chose an ssh command through
// GIT_SSH_COMMAND, GIT_SSH or core.sshCommand. Those win over batchSSH.
func customSSH(ctx context.Context, dir string) bool {
	if os.Getenv("GIT_SSH_COMMAND") != "" || os.Getenv("GIT_SSH") != "" {
		return true
	}
	out, err := cmd.OutputContext(ctx, dir, "git", "config", "--get", "core.sshCommand")
	return err == nil && strings.TrimSpace(string(out)) != ""
}

// output runs git and returns trimmed stdout.
// Every "no answer" case (failure, timeout, blank output) collapses to ok=false.
func output(ctx context.Context, r Runner, dir string, args ...string) (string, bool) {
	res, ok := r.Run(ctx, dir, args...)
	if !ok {
		return "", false
	}
	out := strings.TrimSpace(res.Stdout)
	return out, out != ""
}
