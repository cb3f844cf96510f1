// Package loader loads a shared library into the current process.
//
// Libraries are never unloaded: native code may have registered callbacks
// or threads that outlive any handle we could close.
package loader

import (
	"errors"
	"sync"
)

// ErrLoad is returned when the dynamic loader rejects a library.
var ErrLoad = errors.New("failed to load native library")

// Handle is an opaque dynamic loader handle (dlopen handle or HMODULE).
type Handle uintptr

// Loader loads the library at path and returns its handle.
type Loader interface {
	Load(path string) (Handle, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (Handle, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (Handle, error) {
	return f(path)
}

// Native returns the platform's dynamic loader.
func Native() Loader {
	return nativeLoader{}
}

// Recorder is a Loader that records paths instead of loading them. It is
// safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	paths []string
	Err   error
}

// Load records path and returns r.Err.
func (r *Recorder) Load(path string) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paths = append(r.paths, path)
	if r.Err != nil {
		return 0, r.Err
	}
	return Handle(len(r.paths)), nil
}

// Paths returns the recorded paths in call order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.paths...)
}
