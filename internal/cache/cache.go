// Package cache manages the per-user native library cache directory.
//
// Each cached binary has a companion "<binary>.lock" file. A process that
// loads a binary holds a shared lock on its companion for as long as it
// runs (the pin). Garbage collection only deletes a binary when its
// companion is missing or a non-blocking exclusive lock on it succeeds, so a
// binary is never removed while any process has it pinned, and collection
// never waits on another process.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/artifact"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/lock"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/logging"
)

// Directory names below the user's home.
const (
	RootDirName   = ".nekojni"
	LibsDirName   = "native_libs"
	directoryMode = 0700
)

// Dir returns the cache directory for library below home.
func Dir(home, library string) string {
	return filepath.Join(home, RootDirName, LibsDirName, library)
}

// Cache is one library's cache directory.
type Cache struct {
	dir    string
	logger logging.Logger
}

// Open creates dir if needed and returns a Cache for it.
func Open(dir string, logger logging.Logger) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, directoryMode); err != nil {
		return nil, fmt.Errorf("%w: create cache dir: %v", artifact.ErrExtraction, err)
	}
	return &Cache{dir: dir, logger: logging.OrNoop(logger)}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the path of name inside the cache.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, name)
}

// Pin marks a binary as in use by this process.
type Pin struct {
	name   string
	handle *lock.Handle
}

// Pin takes a shared lock on the companion lock file of binaryName, blocking
// while a collector holds it exclusively. The returned Pin is meant to be
// kept for the life of the process; the OS releases it on exit.
func (c *Cache) Pin(binaryName string) (*Pin, error) {
	h, err := lock.AcquireShared(c.Path(artifact.LockName(binaryName)))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Pinned native binary", "binary", binaryName)
	return &Pin{name: binaryName, handle: h}, nil
}

// Name returns the pinned binary name.
func (p *Pin) Name() string {
	return p.name
}

// Held reports whether the pin still holds its shared lock.
func (p *Pin) Held() bool {
	return p != nil && p.handle.Mode() == lock.Shared
}

// Release drops the pin. Production code never calls it: the pin must
// outlive every use of the loaded library. It exists to simulate process
// exit.
func (p *Pin) Release() error {
	if p == nil {
		return nil
	}
	return p.handle.Release()
}

// Ensure makes sure binaryName exists in the cache, calling extract with the
// destination path when it does not. The caller must hold a Pin on
// binaryName.
func (c *Cache) Ensure(binaryName string, extract func(dest string) error) (path string, extracted bool, err error) {
	path = c.Path(binaryName)

	info, err := os.Stat(path)
	switch {
	case err == nil && info.Mode().IsRegular():
		return path, false, nil
	case err == nil:
		return "", false, fmt.Errorf("%w: %s is not a regular file", artifact.ErrExtraction, path)
	case !errors.Is(err, os.ErrNotExist):
		return "", false, fmt.Errorf("%w: stat %s: %v", artifact.ErrExtraction, path, err)
	}

	if err := extract(path); err != nil {
		return "", false, err
	}
	c.logger.Debug("Extracted native binary", "binary", binaryName, "path", path)
	return path, true, nil
}

// Report summarizes one collection pass.
type Report struct {
	Removed []string
	Skipped []string
	Failed  map[string]error
}

func (r *Report) fail(name string, err error) {
	if r.Failed == nil {
		r.Failed = make(map[string]error)
	}
	r.Failed[name] = err
}

// Collect deletes every cached binary other than keep that no process has
// pinned. It never blocks on another process. Per-entry failures are
// recorded in the report and logged; the returned error is only set when
// the directory cannot be listed.
func (c *Cache) Collect(keep string) (*Report, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache dir: %w", err)
	}

	report := &Report{}
	for _, entry := range entries {
		name := entry.Name()
		if artifact.IsLockName(name) || name == keep || entry.IsDir() {
			continue
		}

		removed, err := c.collectOne(name)
		switch {
		case err != nil:
			c.logger.Warn("Failed to remove old native binary", "binary", name, "error", err)
			report.fail(name, err)
		case removed:
			c.logger.Debug("Removed old native binary", "binary", name)
			report.Removed = append(report.Removed, name)
		default:
			c.logger.Debug("Old native binary still in use", "binary", name)
			report.Skipped = append(report.Skipped, name)
		}
	}

	return report, nil
}

func (c *Cache) collectOne(name string) (bool, error) {
	binaryPath := c.Path(name)
	lockPath := c.Path(artifact.LockName(name))

	if _, err := os.Stat(lockPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("stat lock file: %w", err)
		}
		// Never pinned by anyone.
		return true, removeIfExists(binaryPath)
	}

	ran, err := lock.WithTryExclusive(lockPath, func() error {
		return removeIfExists(binaryPath)
	})
	if err != nil || !ran {
		return false, err
	}

	return true, removeIfExists(lockPath)
}

// Entry describes one cached binary.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
	HasLock bool
	InUse   bool
}

// List returns the cached binaries. InUse is probed without blocking.
func (c *Cache) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if artifact.IsLockName(name) || de.IsDir() {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// Removed by a concurrent collector.
			continue
		}
		entry := Entry{Name: name, Size: info.Size(), ModTime: info.ModTime()}

		lockPath := c.Path(artifact.LockName(name))
		if _, err := os.Stat(lockPath); err == nil {
			entry.HasLock = true
			held, err := lock.Probe(lockPath)
			if err != nil {
				return nil, err
			}
			entry.InUse = held
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
