package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ReadHash reads the manifest entry at resourcePath and returns the content
// hash it holds. Surrounding whitespace is ignored.
func ReadHash(fsys fs.FS, resourcePath string) (string, []byte, error) {
	data, err := fs.ReadFile(fsys, resourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", ErrResourceNotFound, resourcePath)
		}
		return "", nil, fmt.Errorf("read manifest %s: %w", resourcePath, err)
	}

	hash := strings.TrimSpace(string(data))
	if err := ValidateHash(hash); err != nil {
		return "", nil, fmt.Errorf("manifest %s: %w", resourcePath, err)
	}
	return hash, data, nil
}

// ValidateHash rejects hashes that cannot be embedded in a file name.
func ValidateHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("%w: empty", ErrInvalidHash)
	}
	if strings.ContainsAny(hash, `/\`) || strings.Contains(hash, "..") {
		return fmt.Errorf("%w: %q contains a path element", ErrInvalidHash, hash)
	}
	for _, r := range hash {
		if r < 0x21 || r == 0x7f {
			return fmt.Errorf("%w: %q contains a control or space character", ErrInvalidHash, hash)
		}
	}
	return nil
}
