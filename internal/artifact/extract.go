package artifact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Extractor copies embedded entries to disk.
type Extractor struct {
	fsys fs.FS
}

// NewExtractor creates an extractor reading from fsys.
func NewExtractor(fsys fs.FS) *Extractor {
	return &Extractor{fsys: fsys}
}

// Extract writes the entry at resourcePath to destPath.
//
// The file is created or truncated in place and written without a temporary
// file, rename or fsync. Two processes extracting the same name at once both
// write the same bytes, because the name carries the content hash.
func (e *Extractor) Extract(resourcePath, destPath string) error {
	src, err := e.fsys.Open(resourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrResourceNotFound, resourcePath)
		}
		return fmt.Errorf("%w: open resource %s: %v", ErrExtraction, resourcePath, err)
	}
	defer src.Close()

	outFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("%w: create file: %v", ErrExtraction, err)
	}

	if _, err := io.Copy(outFile, src); err != nil {
		outFile.Close()
		return fmt.Errorf("%w: write file: %v", ErrExtraction, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("%w: close file: %v", ErrExtraction, err)
	}
	return nil
}

// Exists reports whether the entry at resourcePath is present.
func (e *Extractor) Exists(resourcePath string) bool {
	info, err := fs.Stat(e.fsys, resourcePath)
	return err == nil && !info.IsDir()
}
