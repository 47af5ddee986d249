package lock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created at the media root.
const FileName = ".cleanmedia.lock"

// ErrLocked is returned when another process holds the root's lock.
var ErrLocked = errors.New("another cleanmedia run holds the lock")

// RootLock serializes runs and undos against one media root.
type RootLock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock for root without blocking.
func Acquire(root string) (*RootLock, error) {
	path := filepath.Join(root, FileName)
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &RootLock{path: path, lock: l}, nil
}

// Path is the lock file location.
func (r *RootLock) Path() string { return r.path }

// Release unlocks and leaves the lock file in place; runs ignore it.
func (r *RootLock) Release() error {
	if r == nil || r.lock == nil {
		return nil
	}
	if err := r.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", r.path, err)
	}
	return nil
}

// IsLockFile reports whether name is the lock file's base name.
func IsLockFile(name string) bool {
	return name == FileName
}
