package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

var _ Logger = (*log.Logger)(nil)

// NewCLI returns a charmbracelet logger writing to w at the named level
// ("debug", "info", "warn", "error").
func NewCLI(w io.Writer, prefix, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: prefix,
	}), nil
}
