package cache

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked Lock polls for the lock.
const lockRetryDelay = 10 * time.Millisecond

// FileLock provides exclusive advisory locking on a file.
// Two FileLocks on the same path exclude each other, also within one process.
type FileLock struct {
	path string
	fl   *flock.Flock
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created if it doesn't exist; its directory must exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires an exclusive lock on the file.
// Blocks until the lock is acquired or ctx is done.
func (l *FileLock) Lock(ctx context.Context) error {
	fl := flock.New(l.path)

	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		_ = fl.Close()
		return err
	}
	if !locked {
		_ = fl.Close()
		return ctx.Err()
	}

	l.fl = fl
	return nil
}

// Unlock releases the lock and closes the file.
func (l *FileLock) Unlock() error {
	if l.fl == nil {
		return nil
	}

	err := l.fl.Unlock()
	l.fl = nil
	return err
}
