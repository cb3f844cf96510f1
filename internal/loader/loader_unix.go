//go:build (darwin || linux) && (amd64 || arm64)

package loader

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type nativeLoader struct{}

// Load dlopens path with RTLD_NOW|RTLD_GLOBAL so unresolved symbols fail
// here rather than at first call.
func (nativeLoader) Load(path string) (Handle, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}
	return Handle(h), nil
}
