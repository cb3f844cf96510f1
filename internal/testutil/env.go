// Package testutil provides utilities for testing nekoload in isolation.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// SetupTestEnv points NEKOJNI_HOME at a fresh temp directory and clears the
// platform overrides, so tests never touch the user's real cache. It returns
// the home directory.
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o750); err != nil {
		t.Fatalf("failed to create test home %s: %v", home, err)
	}

	t.Setenv("NEKOJNI_HOME", home)
	t.Setenv("NEKOJNI_OS", "")
	t.Setenv("NEKOJNI_ARCH", "")

	return home
}

// CountingFS wraps an fs.FS and counts Open calls.
type CountingFS struct {
	FS    fs.FS
	opens atomic.Int64
}

// Open implements fs.FS.
func (c *CountingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.FS.Open(name)
}

// Opens returns the number of Open calls so far.
func (c *CountingFS) Opens() int64 {
	return c.opens.Load()
}
