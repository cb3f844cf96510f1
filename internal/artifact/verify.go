package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier checks manifest entries against an OpenPGP keyring.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier parses an armored or binary public keyring.
func NewVerifier(keyringData []byte) (*Verifier, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(keyringData))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(keyringData))
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return &Verifier{keyring: keyring}, nil
}

// VerifyManifest checks manifest against the detached signature stored at
// signaturePath in fsys. Both armored and binary signatures are accepted.
func (v *Verifier) VerifyManifest(fsys fs.FS, signaturePath string, manifest []byte) error {
	sig, err := fs.ReadFile(fsys, signaturePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: signature %s not found", ErrManifestSignature, signaturePath)
		}
		return fmt.Errorf("%w: read signature: %v", ErrManifestSignature, err)
	}

	_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(manifest), bytes.NewReader(sig), nil)
	if err != nil {
		_, err = openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(manifest), bytes.NewReader(sig), nil)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrManifestSignature, err)
	}

	return nil
}
