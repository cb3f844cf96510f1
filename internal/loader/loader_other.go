//go:build !windows && !((darwin || linux) && (amd64 || arm64))

package loader

import (
	"fmt"
	"runtime"
)

// nativeLoader covers builds with no dlopen binding, linux/386 included:
// purego ships no fakecgo runtime there. Callers on such builds pass their
// own Loader.
type nativeLoader struct{}

func (nativeLoader) Load(path string) (Handle, error) {
	return 0, fmt.Errorf("%w: no dynamic loader for %s/%s", ErrLoad, runtime.GOOS, runtime.GOARCH)
}
