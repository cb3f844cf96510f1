package artifact

import (
	"bytes"
	"fmt"

	"github.com/ProtonMail/go-crypto/openpgp"       //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/armor" //nolint:staticcheck
)

// SignManifest produces an armored detached signature of manifest.
func SignManifest(signer *openpgp.Entity, manifest []byte) ([]byte, error) {
	if signer == nil || signer.PrivateKey == nil {
		return nil, fmt.Errorf("signing key has no private key")
	}

	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, signer, bytes.NewReader(manifest), nil); err != nil {
		return nil, fmt.Errorf("sign manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadSigningKey parses the first private key from an armored or binary
// secret keyring.
func ReadSigningKey(keyData []byte) (*openpgp.Entity, error) {
	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(keyData))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(keyData))
		if err != nil {
			return nil, fmt.Errorf("read signing key: %w", err)
		}
	}

	for _, e := range entities {
		if e.PrivateKey != nil {
			if e.PrivateKey.Encrypted {
				return nil, fmt.Errorf("signing key %X is passphrase protected", e.PrimaryKey.KeyId)
			}
			return e, nil
		}
	}
	return nil, fmt.Errorf("no private key in keyring")
}

// ArmorPublicKey serializes the public half of e as an armored keyring.
func ArmorPublicKey(e *openpgp.Entity) ([]byte, error) {
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, fmt.Errorf("armor public key: %w", err)
	}
	if err := e.Serialize(w); err != nil {
		w.Close()
		return nil, fmt.Errorf("serialize public key: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("armor public key: %w", err)
	}
	return buf.Bytes(), nil
}
