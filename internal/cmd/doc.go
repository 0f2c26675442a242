// Package cmd provides helpers for executing shell commands with proper error handling.
//
// Commands are started with [os/exec.CommandContext] so cancelling the context
// (Ctrl-C, per-call timeouts) kills the child process. Stderr is captured and
// used as the error message when a command fails, which makes git failures
// readable in verbose output.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "status", "--porcelain")
//	if err != nil {
//	    // err carries git's stderr, or ctx.Err() if the call was cancelled
//	}
//
// Every invocation is reported to the context logger (see package log), which
// prints "[dir] $ git ..." with the elapsed time in verbose mode.
//
// # Design Notes
//
// wsi shells out to the git CLI rather than using a Go git library so that
// user configuration (SSH keys, credential helpers, includes) applies unchanged.
package cmd
