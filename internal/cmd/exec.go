package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/wsi/internal/log"
)

// RunContext executes a command in dir and returns stderr in the error message if it fails.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, _, err := capture(ctx, dir, nil, name, args...)
	return err
}

// OutputContext executes a command in dir and returns stdout, with stderr in the error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	stdout, _, err := capture(ctx, dir, nil, name, args...)
	if err != nil {
		return nil, err
	}
	return stdout, nil
}

// CaptureContext executes a command in dir with extra environment variables
// appended to the current environment and returns both output streams.
func CaptureContext(ctx context.Context, dir string, env []string, name string, args ...string) (stdout, stderr []byte, err error) {
	return capture(ctx, dir, env, name, args...)
}

func capture(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	if len(env) > 0 {
		c.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	done(time.Since(start))

	if err != nil {
		// Killed by cancellation or deadline: report the context error, not "signal: killed"
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, nil, errors.New(errMsg)
		}
		return nil, nil, err
	}

	return stdout.Bytes(), stderr.Bytes(), nil
}
