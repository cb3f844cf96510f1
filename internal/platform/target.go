package platform

import (
	"fmt"
	"strings"
)

// osTraits holds the per-OS naming conventions.
type osTraits struct {
	name         string
	tripleSuffix string
	libPrefix    string
	libExt       string
}

// osTable and archTable cover every OS and Arch value. The tests iterate
// AllOS and AllArch to keep them exhaustive.
var osTable = map[OS]osTraits{
	Windows: {name: "windows", tripleSuffix: "pc-windows-msvc", libPrefix: "", libExt: "dll"},
	MacOS:   {name: "macos", tripleSuffix: "apple-darwin", libPrefix: "lib", libExt: "dylib"},
	Linux:   {name: "linux", tripleSuffix: "unknown-linux-gnu", libPrefix: "lib", libExt: "so"},
}

var archTable = map[Arch]string{
	X86:     "x86",
	AMD64:   "x86_64",
	AArch64: "aarch64",
}

// AllOS lists every supported operating system.
var AllOS = []OS{Windows, MacOS, Linux}

// AllArch lists every supported architecture.
var AllArch = []Arch{X86, AMD64, AArch64}

// osPrefixes maps lowercase OS identifier prefixes to an OS. Both Go
// (runtime.GOOS) and JVM style ("Mac OS X", "Windows 10") identifiers match.
var osPrefixes = []struct {
	prefix string
	os     OS
}{
	{"windows", Windows},
	{"mac", MacOS},
	{"darwin", MacOS},
	{"linux", Linux},
}

// archAliases maps architecture identifiers to an Arch.
var archAliases = map[string]Arch{
	"x86":     X86,
	"i386":    X86,
	"i486":    X86,
	"i586":    X86,
	"i686":    X86,
	"386":     X86,
	"amd64":   AMD64,
	"x86_64":  AMD64,
	"aarch64": AArch64,
	"arm64":   AArch64,
}

// ParseOS matches an OS identifier by prefix, case-insensitively.
func ParseOS(name string) (OS, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, p := range osPrefixes {
		if normalized != "" && strings.HasPrefix(normalized, p.prefix) {
			return p.os, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
}

// ParseArch matches an architecture identifier against the known aliases.
func ParseArch(name string) (Arch, error) {
	if arch, ok := archAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return arch, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedArchitecture, name)
}

// Resolve maps an OS identifier and an architecture identifier to a Target.
// It is a pure function of its inputs.
func Resolve(osName, archName string) (Target, error) {
	os, err := ParseOS(osName)
	if err != nil {
		return Target{}, err
	}
	arch, err := ParseArch(archName)
	if err != nil {
		return Target{}, err
	}
	return Target{OS: os, Arch: arch}, nil
}

// String returns the lowercase OS name.
func (o OS) String() string {
	if t, ok := osTable[o]; ok {
		return t.name
	}
	return fmt.Sprintf("OS(%d)", int(o))
}

// LibraryPrefix returns the file name prefix for shared libraries ("lib" on
// Unix-like systems).
func (o OS) LibraryPrefix() string {
	return osTable[o].libPrefix
}

// LibraryExt returns the shared library extension without the leading dot.
func (o OS) LibraryExt() string {
	return osTable[o].libExt
}

// String returns the architecture component of the target triple.
func (a Arch) String() string {
	if s, ok := archTable[a]; ok {
		return s
	}
	return fmt.Sprintf("Arch(%d)", int(a))
}

// Valid reports whether both components are known values.
func (t Target) Valid() bool {
	_, osOK := osTable[t.OS]
	_, archOK := archTable[t.Arch]
	return osOK && archOK
}

// Triple returns the canonical arch-vendor-os-abi string, e.g.
// "x86_64-unknown-linux-gnu".
func (t Target) Triple() string {
	return archTable[t.Arch] + "-" + osTable[t.OS].tripleSuffix
}

func (t Target) String() string {
	return t.Triple()
}

// AllTargets returns every supported target in a stable order.
func AllTargets() []Target {
	targets := make([]Target, 0, len(AllOS)*len(AllArch))
	for _, o := range AllOS {
		for _, a := range AllArch {
			targets = append(targets, Target{OS: o, Arch: a})
		}
	}
	return targets
}

// ParseTriple is the inverse of Target.Triple.
func ParseTriple(triple string) (Target, error) {
	for _, t := range AllTargets() {
		if t.Triple() == triple {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("%w: unknown target triple %q", ErrUnsupportedPlatform, triple)
}

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizePlatform(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
