// Package artifact names, reads and extracts the embedded native library
// artifacts for a target.
//
// # Resource layout
//
// Every target has two entries under a resource prefix inside an fs.FS
// (normally an embed.FS produced by nekopack):
//
//	<prefix>/[lib]<name>-<version>.<triple>.hash            manifest: content hash as text
//	<prefix>/[lib]<name>-<version>.<triple>.<hash>.<ext>    the shared library
//
// The "lib" prefix is used on macOS and Linux. The hash is part of the binary
// name so distinct builds never share a cache file. A manifest may be
// accompanied by an armored OpenPGP detached signature named
// "<manifest>.asc"; when a keyring is configured the signature is required.
//
// # Components
//   - Namer: pure mapping from (target, version, hash) to file names
//   - ReadHash: manifest lookup and validation
//   - Extractor: copies an embedded entry to disk
//   - Verifier: OpenPGP verification of manifests
package artifact
