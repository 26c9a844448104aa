// Package lockfile serializes claim and complete operations per planning
// root with an advisory file lock. Two processes working the same tree
// cannot claim the same task.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// LockFileName is the advisory lock file kept beside the planning data.
const LockFileName = ".trellis.lock"

// Lock holds an acquired advisory lock until Release.
type Lock struct {
	file *os.File
}

// Acquire blocks until the per-root lock is available and returns it.
// The lock file itself is never deleted; only the flock matters.
func Acquire(root string) (*Lock, error) {
	path := filepath.Join(root, LockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := flockExclusiveBlocking(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking %s: %w", LockFileName, err)
	}
	return &Lock{file: f}, nil
}

// TryAcquire attempts the lock without blocking. Returns ErrLocked when
// another process holds it.
func TryAcquire(root string) (*Lock, error) {
	path := filepath.Join(root, LockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := flockExclusiveNonBlocking(f); err != nil {
		f.Close()
		return nil, err
	}
	return &Lock{file: f}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := flockUnlock(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
