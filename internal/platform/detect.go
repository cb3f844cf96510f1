package platform

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// Environment variables that override the detected OS and architecture.
const (
	EnvOS   = "NEKOJNI_OS"
	EnvArch = "NEKOJNI_ARCH"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect resolves the target from runtime.GOOS and runtime.GOARCH, unless
// NEKOJNI_OS or NEKOJNI_ARCH are set. The Go runtime architecture is used
// rather than the kernel's because the library is loaded into this process.
//
// On Linux, distribution details come from gopsutil. A gopsutil failure is
// not fatal; the fields are left empty. A cancelled context is.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OSRaw:   envOr(EnvOS, runtime.GOOS),
		ArchRaw: envOr(EnvArch, runtime.GOARCH),
	}

	target, err := Resolve(info.OSRaw, info.ArchRaw)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	info.Target = target

	if kernel, err := host.KernelVersionWithContext(ctx); err == nil {
		info.KernelVersion = kernel
	}

	if target.OS == Linux && runtime.GOOS == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}

		platform = normalizePlatform(platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family)
			info.Version = normalizePlatform(version)
		}
	}

	return info, nil
}

// StaticDetector returns a fixed Info. It is used when the caller already
// knows the target, and by tests.
type StaticDetector struct {
	Info *Info
	Err  error
}

// Detect returns the configured Info and error.
func (s *StaticDetector) Detect(ctx context.Context) (*Info, error) {
	return s.Info, s.Err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
