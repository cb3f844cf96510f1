package artifact

import (
	"path"
	"strings"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

// Namer derives resource and file names for one library version.
type Namer struct {
	Library string
	Version string
}

// Name returns the file name for the given kind. hash is ignored for
// KindManifest.
func (n Namer) Name(target platform.Target, hash string, kind Kind) string {
	var b strings.Builder
	b.WriteString(target.OS.LibraryPrefix())
	b.WriteString(n.Library)
	b.WriteByte('-')
	b.WriteString(n.Version)
	b.WriteByte('.')
	b.WriteString(target.Triple())

	if kind == KindBinary {
		b.WriteByte('.')
		b.WriteString(hash)
		b.WriteByte('.')
		b.WriteString(target.OS.LibraryExt())
	} else {
		b.WriteString(".hash")
	}
	return b.String()
}

// ManifestName returns the manifest entry name for target.
func (n Namer) ManifestName(target platform.Target) string {
	return n.Name(target, "", KindManifest)
}

// BinaryName returns the binary entry name for target and hash.
func (n Namer) BinaryName(target platform.Target, hash string) string {
	return n.Name(target, hash, KindBinary)
}

// Record returns the cache record for target and hash.
func (n Namer) Record(target platform.Target, hash string) Record {
	binary := n.BinaryName(target, hash)
	return Record{
		Target:     target,
		Version:    n.Version,
		Hash:       hash,
		BinaryName: binary,
		LockName:   LockName(binary),
	}
}

// ResourcePath joins a resource prefix and an entry name into an fs.FS path.
// Leading and trailing slashes on the prefix are ignored.
func ResourcePath(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// LockName returns the companion lock file name for a binary name.
func LockName(binaryName string) string {
	return binaryName + LockSuffix
}

// IsLockName reports whether name is a lock file name.
func IsLockName(name string) bool {
	return strings.HasSuffix(name, LockSuffix)
}

// SignatureName returns the signature entry name for a manifest name.
func SignatureName(manifestName string) string {
	return manifestName + SignatureSuffix
}
