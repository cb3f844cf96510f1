// Package lock wraps OS advisory file locks as a cross-process
// readers-writer lock.
//
// A shared lock marks "a live process depends on this file"; an exclusive
// lock can only be taken once no shared holder exists. Locks belong to the
// open file, so two handles in the same process behave like two processes.
// The kernel drops every lock a process holds when it exits.
package lock

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLockSemantics is returned when a lock acquired in shared mode is not
// reported as shared, which happens on filesystems with degraded lock
// support.
var ErrLockSemantics = errors.New("could not create shared lock")

// Mode is the mode a Handle holds.
type Mode int

const (
	Shared Mode = iota + 1
	Exclusive
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "none"
	}
}

// Handle is a held lock on a lock file.
type Handle struct {
	path string
	mode Mode
	fl   *flock.Flock
}

// AcquireShared opens or creates the lock file at path and takes a shared
// lock on it, blocking while an exclusive holder exists.
func AcquireShared(path string) (*Handle, error) {
	fl := flock.New(path)
	if err := fl.RLock(); err != nil {
		fl.Close()
		return nil, fmt.Errorf("acquire shared lock %s: %w", path, err)
	}

	if !fl.RLocked() || fl.Locked() {
		fl.Close()
		return nil, fmt.Errorf("%w: %s", ErrLockSemantics, path)
	}

	return &Handle{path: path, mode: Shared, fl: fl}, nil
}

// TryExclusive attempts a non-blocking exclusive lock. It returns a nil
// Handle and no error when another holder exists.
func TryExclusive(path string) (*Handle, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		fl.Close()
		return nil, fmt.Errorf("try exclusive lock %s: %w", path, err)
	}
	if !locked {
		fl.Close()
		return nil, nil
	}
	return &Handle{path: path, mode: Exclusive, fl: fl}, nil
}

// WithTryExclusive runs fn while holding a non-blocking exclusive lock on
// path. fn is not run when the lock is held elsewhere; the lock is released
// on every return path.
func WithTryExclusive(path string, fn func() error) (ran bool, err error) {
	h, err := TryExclusive(path)
	if err != nil {
		return false, err
	}
	if h == nil {
		return false, nil
	}

	defer func() {
		if releaseErr := h.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	return true, fn()
}

// Probe reports whether any process currently holds a lock on path. It never
// blocks and leaves no lock behind, but like every function here it creates
// the lock file if it does not exist.
func Probe(path string) (held bool, err error) {
	ran, err := WithTryExclusive(path, func() error { return nil })
	if err != nil {
		return false, err
	}
	return !ran, nil
}

// Path returns the lock file path.
func (h *Handle) Path() string {
	return h.path
}

// Mode returns the mode the handle holds, or 0 once released.
func (h *Handle) Mode() Mode {
	return h.mode
}

// Release unlocks and closes the lock file. The lock file itself is left on
// disk. Release is idempotent.
func (h *Handle) Release() error {
	if h == nil || h.fl == nil {
		return nil
	}

	err := h.fl.Unlock()
	h.fl.Close()
	h.fl = nil
	h.mode = 0
	if err != nil {
		return fmt.Errorf("release lock %s: %w", h.path, err)
	}
	return nil
}
