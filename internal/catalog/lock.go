package catalog

import (
	"fmt"

	"github.com/gofrs/flock"
)

// ImportLock serializes catalog imports across processes.
type ImportLock struct {
	path string
	lock *flock.Flock
}

// NewImportLock returns the lock guarding the catalog at dbPath.
func NewImportLock(dbPath string) *ImportLock {
	lockPath := dbPath + ".lock"
	return &ImportLock{path: lockPath, lock: flock.New(lockPath)}
}

// Path returns the lock file path.
func (l *ImportLock) Path() string { return l.path }

// Acquire takes the lock without blocking.
func (l *ImportLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another catalog import is running (lock %s)", l.path)
	}
	return nil
}

// Release drops the lock.
func (l *ImportLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release import lock: %w", err)
	}
	return nil
}
