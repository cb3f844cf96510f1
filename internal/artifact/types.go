package artifact

import (
	"errors"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

var (
	// ErrResourceNotFound is returned when a manifest or binary entry is
	// missing from the embedded resources.
	ErrResourceNotFound = errors.New("native binary for this platform was not found")
	// ErrInvalidHash is returned when a manifest does not contain a usable
	// content hash.
	ErrInvalidHash = errors.New("invalid content hash in manifest")
	// ErrExtraction is returned when an embedded binary cannot be written to
	// the cache.
	ErrExtraction = errors.New("failed to extract native binary")
	// ErrManifestSignature is returned when a configured keyring does not
	// verify the manifest.
	ErrManifestSignature = errors.New("manifest signature verification failed")
)

// Kind selects which artifact a name is derived for.
type Kind int

const (
	// KindManifest is the text entry holding the content hash.
	KindManifest Kind = iota
	// KindBinary is the shared library itself.
	KindBinary
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindManifest:
		return "manifest"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// LockSuffix is appended to a binary name to form its companion lock file.
const LockSuffix = ".lock"

// SignatureSuffix is appended to a manifest name to form its signature entry.
const SignatureSuffix = ".asc"

// Record identifies one cached build of the library.
type Record struct {
	Target     platform.Target
	Version    string
	Hash       string
	BinaryName string
	LockName   string
}
