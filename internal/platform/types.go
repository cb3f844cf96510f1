// Package platform resolves the running operating system and CPU architecture
// into the canonical target triple used to name native library artifacts.
//
// Resolution is a pure lookup over a closed set of operating systems and
// architectures. Anything outside that set is rejected with
// ErrUnsupportedPlatform or ErrUnsupportedArchitecture; neither is retryable.
// The package also uses gopsutil to attach Linux distribution details to the
// detected Info for diagnostics, and exposes the result to Lua pack files.
package platform

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedPlatform is returned when the operating system is not one
	// of Windows, macOS or Linux.
	ErrUnsupportedPlatform = errors.New("unsupported operating system")
	// ErrUnsupportedArchitecture is returned when the CPU architecture is not
	// one of x86, x86_64 or aarch64.
	ErrUnsupportedArchitecture = errors.New("unsupported CPU architecture")
)

// OS is an operating system a native library can be built for.
type OS int

const (
	Windows OS = iota + 1
	MacOS
	Linux
)

// Arch is a CPU architecture a native library can be built for.
type Arch int

const (
	X86 Arch = iota + 1
	AMD64
	AArch64
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyGentoo  = "gentoo"
	FamilyUnknown = "unknown"
)

// Target is a resolved (OS, Arch) pair.
type Target struct {
	OS   OS
	Arch Arch
}

// Info contains platform detection information.
type Info struct {
	OSRaw   string // OS identifier the target was resolved from
	ArchRaw string // architecture identifier the target was resolved from
	Target  Target

	// Diagnostics only; never used for naming.
	Platform      string // distro ID (Linux only, e.g., "ubuntu")
	Family        string // canonical family (e.g., "debian")
	Version       string // distro version (e.g., "22.04")
	KernelVersion string
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
