package pack

import (
	"fmt"
	"sort"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

// DefaultPrefix is the resource prefix used when a pack file sets none.
const DefaultPrefix = "native"

// Spec is a parsed pack file.
type Spec struct {
	Library   string
	Version   string
	Prefix    string
	GoPackage string
	// Binaries maps each target to the absolute path of its prebuilt library.
	Binaries map[platform.Target]string
}

// Targets returns the declared targets in platform.AllTargets order.
func (s *Spec) Targets() []platform.Target {
	targets := make([]platform.Target, 0, len(s.Binaries))
	for t := range s.Binaries {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].OS != targets[j].OS {
			return targets[i].OS < targets[j].OS
		}
		return targets[i].Arch < targets[j].Arch
	})
	return targets
}

// ParseError represents a pack file error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}
