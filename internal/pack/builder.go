package pack

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork

	"github.com/ZebulonRouseFrantzich/nekoload/internal/artifact"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/logging"
)

// KeyringFile is the armored public key written next to the resource tree
// when the build is signed.
const KeyringFile = "nekojni-keyring.asc"

// Builder writes resource trees.
type Builder struct {
	// OutDir receives <prefix>/... and, when signing, KeyringFile.
	OutDir string
	// Signer, when set, produces a detached signature for every manifest.
	Signer *openpgp.Entity
	Logger logging.Logger
}

// Result describes what Build wrote.
type Result struct {
	Records []artifact.Record
	// ResourceDir is <OutDir>/<prefix>.
	ResourceDir string
	// KeyringPath is empty for unsigned builds.
	KeyringPath string
}

// Build hashes every binary in spec and writes its manifest and binary
// entries. Existing entries with the same name are overwritten.
func (b *Builder) Build(spec *Spec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	logger := logging.OrNoop(b.Logger)

	resourceDir := filepath.Join(b.OutDir, filepath.FromSlash(spec.Prefix))
	if err := os.MkdirAll(resourceDir, 0o755); err != nil {
		return nil, fmt.Errorf("create resource dir: %w", err)
	}

	result := &Result{ResourceDir: resourceDir}
	namer := artifact.Namer{Library: spec.Library, Version: spec.Version}

	for _, target := range spec.Targets() {
		src := spec.Binaries[target]

		hash, err := HashFile(src)
		if err != nil {
			return nil, fmt.Errorf("hash %s binary: %w", target, err)
		}
		record := namer.Record(target, hash)
		manifestName := namer.ManifestName(target)

		if err := copyFile(src, filepath.Join(resourceDir, record.BinaryName)); err != nil {
			return nil, fmt.Errorf("write %s binary: %w", target, err)
		}

		manifest := []byte(hash + "\n")
		if err := os.WriteFile(filepath.Join(resourceDir, manifestName), manifest, 0o644); err != nil {
			return nil, fmt.Errorf("write %s manifest: %w", target, err)
		}

		if b.Signer != nil {
			sig, err := artifact.SignManifest(b.Signer, manifest)
			if err != nil {
				return nil, fmt.Errorf("sign %s manifest: %w", target, err)
			}
			sigPath := filepath.Join(resourceDir, artifact.SignatureName(manifestName))
			if err := os.WriteFile(sigPath, sig, 0o644); err != nil {
				return nil, fmt.Errorf("write %s signature: %w", target, err)
			}
		}

		logger.Info("Packed native binary", "target", target.Triple(), "hash", hash, "binary", record.BinaryName)
		result.Records = append(result.Records, record)
	}

	if b.Signer != nil {
		pub, err := artifact.ArmorPublicKey(b.Signer)
		if err != nil {
			return nil, fmt.Errorf("export public key: %w", err)
		}
		result.KeyringPath = filepath.Join(b.OutDir, KeyringFile)
		if err := os.WriteFile(result.KeyringPath, pub, 0o644); err != nil {
			return nil, fmt.Errorf("write keyring: %w", err)
		}
	}

	return result, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
