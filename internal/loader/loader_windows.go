//go:build windows

package loader

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type nativeLoader struct{}

// Load calls LoadLibrary on path.
func (nativeLoader) Load(path string) (Handle, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}
	return Handle(dll.Handle), nil
}
