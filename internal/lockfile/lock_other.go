//go:build !unix

package lockfile

import (
	"errors"
	"os"
)

// ErrLocked is returned by TryAcquire when another process holds the lock.
var ErrLocked = errors.New("planning root locked by another process")

// Non-unix platforms fall back to no-op locking. Single-writer operation is
// already the documented model; the flock is a unix-only hardening layer.
func flockExclusiveNonBlocking(f *os.File) error { return nil }

func flockExclusiveBlocking(f *os.File) error { return nil }

func flockUnlock(f *os.File) error { return nil }
