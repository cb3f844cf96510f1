// Package nativelib extracts an embedded native library into the per-user
// cache, pins it against deletion, loads it, and removes cached builds no
// running process uses any more.
//
// A program normally has one Library per embedded native library, created
// by the binding nekopack generates:
//
//	//go:embed native
//	var resources embed.FS
//
//	var lib = nativelib.New(nativelib.Config{
//	    LibraryName:    "demo",
//	    Version:        "0.1.0",
//	    ResourcePrefix: "native",
//	    Resources:      resources,
//	})
//
//	func Init() error { return lib.Init() }
//
// Init does the real work once. Later calls return nil after a success and
// ErrAlreadyPoisoned after a failure; a failed load is never retried because
// it may leave the process in an unsafe state.
package nativelib

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"github.com/adrg/xdg"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/artifact"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/cache"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/loader"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/logging"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

// EnvHome overrides the home directory the cache lives under.
const EnvHome = "NEKOJNI_HOME"

type (
	// Logger receives structured log output. *log.Logger from
	// github.com/charmbracelet/log satisfies it.
	Logger = logging.Logger
	// Loader loads a shared library into the process.
	Loader = loader.Loader
	// LoaderFunc adapts a function to Loader.
	LoaderFunc = loader.LoaderFunc
	// Handle is the dynamic loader handle of the loaded library.
	Handle = loader.Handle
	// CollectReport summarizes the cleanup pass that followed loading.
	CollectReport = cache.Report
)

// State is the initialization state of a Library.
type State int32

const (
	Uninitialized State = iota
	Ready
	Poisoned
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Poisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// Config describes one embedded native library.
type Config struct {
	// LibraryName, Version and ResourcePrefix are fixed at build time.
	LibraryName    string
	Version        string
	ResourcePrefix string
	// Resources holds the manifest and binary entries, normally an embed.FS.
	Resources fs.FS

	// Keyring is an optional OpenPGP public keyring. When set, every
	// manifest must carry a valid detached signature.
	Keyring []byte

	// Home is the directory the cache lives under. Defaults to
	// $NEKOJNI_HOME, then the user's home directory.
	Home string

	// OS and Arch override platform detection, together or one at a time.
	// Both use the identifiers accepted by the platform resolver ("linux",
	// "Mac OS X", "x86_64", ...).
	OS   string
	Arch string

	// Loader defaults to the platform dynamic loader.
	Loader Loader
	// Logger defaults to a no-op logger.
	Logger Logger
}

// Library is the process-wide loader state for one native library.
type Library struct {
	cfg    Config
	logger Logger

	mu    sync.Mutex
	state atomic.Int32
	cause error

	detector platform.Detector
	target   platform.Target
	cache    *cache.Cache
	pin      *cache.Pin
	path     string
	handle   Handle
	report   *CollectReport
}

// New returns an uninitialized Library. Configuration errors surface from
// the first Init call.
func New(cfg Config) *Library {
	if cfg.Loader == nil {
		cfg.Loader = loader.Native()
	}
	return &Library{
		cfg:      cfg,
		logger:   logging.OrNoop(cfg.Logger),
		detector: platform.NewDetector(),
	}
}

// Init loads the native library, doing the work at most once per Library.
// Concurrent callers wait for the single attempt and observe its result.
func (l *Library) Init() error {
	switch State(l.state.Load()) {
	case Ready:
		return nil
	case Poisoned:
		return l.poisonedErr()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch State(l.state.Load()) {
	case Ready:
		return nil
	case Poisoned:
		return l.poisonedErr()
	}

	if err := l.load(); err != nil {
		l.cause = err
		l.state.Store(int32(Poisoned))
		l.logger.Error("Failed to load native library", "library", l.cfg.LibraryName, "error", err)
		return fmt.Errorf("failed to load native library: %w", err)
	}
	l.collect()
	l.state.Store(int32(Ready))
	return nil
}

func (l *Library) poisonedErr() error {
	return fmt.Errorf("%w: %w", ErrAlreadyPoisoned, l.cause)
}

func (l *Library) load() error {
	if err := l.validate(); err != nil {
		return err
	}

	target, err := l.resolveTarget()
	if err != nil {
		return err
	}
	l.target = target

	namer := artifact.Namer{Library: l.cfg.LibraryName, Version: l.cfg.Version}
	manifestName := namer.ManifestName(target)
	hash, manifest, err := artifact.ReadHash(l.cfg.Resources, artifact.ResourcePath(l.cfg.ResourcePrefix, manifestName))
	if err != nil {
		return err
	}

	if len(l.cfg.Keyring) > 0 {
		verifier, err := artifact.NewVerifier(l.cfg.Keyring)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		sigPath := artifact.ResourcePath(l.cfg.ResourcePrefix, artifact.SignatureName(manifestName))
		if err := verifier.VerifyManifest(l.cfg.Resources, sigPath, manifest); err != nil {
			return err
		}
	}

	binaryName := namer.BinaryName(target, hash)
	extractor := artifact.NewExtractor(l.cfg.Resources)
	resourcePath := artifact.ResourcePath(l.cfg.ResourcePrefix, binaryName)
	if !extractor.Exists(resourcePath) {
		return fmt.Errorf("%w: %s", ErrResourceNotFound, resourcePath)
	}

	c, err := cache.Open(cache.Dir(l.home(), l.cfg.LibraryName), l.logger)
	if err != nil {
		return err
	}
	l.cache = c

	// Never released; see cache.Pin.
	pin, err := c.Pin(binaryName)
	if err != nil {
		return err
	}
	l.pin = pin

	path, extracted, err := c.Ensure(binaryName, func(dest string) error {
		return extractor.Extract(resourcePath, dest)
	})
	if err != nil {
		return err
	}

	handle, err := l.cfg.Loader.Load(path)
	if err != nil {
		return err
	}
	l.path = path
	l.handle = handle

	l.logger.Info("Loaded native library",
		"library", l.cfg.LibraryName,
		"version", l.cfg.Version,
		"target", target.Triple(),
		"path", path,
		"extracted", extracted)
	return nil
}

// collect removes unpinned old builds. Failures are logged only: the
// library is already loaded.
func (l *Library) collect() {
	report, err := l.cache.Collect(l.pin.Name())
	if err != nil {
		l.logger.Warn("Failed to clean up old native binaries", "dir", l.cache.Dir(), "error", err)
		return
	}
	l.report = report
	if len(report.Removed) > 0 || len(report.Skipped) > 0 || len(report.Failed) > 0 {
		l.logger.Debug("Cleaned up old native binaries",
			"removed", len(report.Removed),
			"in_use", len(report.Skipped),
			"failed", len(report.Failed))
	}
}

func (l *Library) validate() error {
	switch {
	case l.cfg.LibraryName == "":
		return fmt.Errorf("%w: LibraryName is required", ErrInvalidConfig)
	case l.cfg.Version == "":
		return fmt.Errorf("%w: Version is required", ErrInvalidConfig)
	case l.cfg.Resources == nil:
		return fmt.Errorf("%w: Resources is required", ErrInvalidConfig)
	}
	return nil
}

func (l *Library) resolveTarget() (platform.Target, error) {
	if l.cfg.OS != "" && l.cfg.Arch != "" {
		return platform.Resolve(l.cfg.OS, l.cfg.Arch)
	}

	info, err := l.detector.Detect(context.Background())
	if err != nil {
		return platform.Target{}, err
	}

	// A single override keeps the detected other half.
	if l.cfg.OS != "" || l.cfg.Arch != "" {
		osName, archName := info.OSRaw, info.ArchRaw
		if l.cfg.OS != "" {
			osName = l.cfg.OS
		}
		if l.cfg.Arch != "" {
			archName = l.cfg.Arch
		}
		return platform.Resolve(osName, archName)
	}
	if info.Platform != "" {
		l.logger.Debug("Detected platform",
			"target", info.Target.Triple(),
			"distro", info.Platform,
			"version", info.Version,
			"kernel", info.KernelVersion)
	}
	return info.Target, nil
}

func (l *Library) home() string {
	if l.cfg.Home != "" {
		return l.cfg.Home
	}
	return DefaultHome()
}

// DefaultHome returns $NEKOJNI_HOME, or the user's home directory when it is
// unset.
func DefaultHome() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	return xdg.Home
}

// State returns the current initialization state.
func (l *Library) State() State {
	return State(l.state.Load())
}

// Path returns the on-disk path of the loaded library, or "" before a
// successful Init.
func (l *Library) Path() string {
	if l.State() != Ready {
		return ""
	}
	return l.path
}

// Handle returns the dynamic loader handle, or 0 before a successful Init.
func (l *Library) Handle() Handle {
	if l.State() != Ready {
		return 0
	}
	return l.handle
}

// Target returns the resolved target triple, or "" before a successful Init.
func (l *Library) Target() string {
	if l.State() != Ready {
		return ""
	}
	return l.target.Triple()
}

// CacheDir returns the cache directory, or "" before a successful Init.
func (l *Library) CacheDir() string {
	if l.State() != Ready {
		return ""
	}
	return l.cache.Dir()
}

// LastCollection returns the report of the cleanup pass run by Init, or nil
// if it did not run or could not list the cache.
func (l *Library) LastCollection() *CollectReport {
	if l.State() != Ready {
		return nil
	}
	return l.report
}
