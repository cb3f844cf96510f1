package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

// Parser reads Lua pack files.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser. When detector is nil the pack file runs
// without a platform table.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile parses the pack file at path. Binary paths are resolved against
// the file's directory.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack file: %w", err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve pack file dir: %w", err)
	}
	return p.ParseString(ctx, string(data), baseDir)
}

// ParseString parses pack file source. Relative binary paths are resolved
// against baseDir.
func (p *Parser) ParseString(ctx context.Context, source, baseDir string) (*Spec, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectTargetTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(source); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractSpec(L, baseDir)
}

// extractSpec reads the "library" and "binaries" globals.
func extractSpec(L *lua.LState, baseDir string) (*Spec, error) {
	libVal := L.GetGlobal("library")
	if libVal.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'library' table",
			Detail:  fmt.Sprintf("expected table, got %s", libVal.Type()),
		}
	}
	lib := libVal.(*lua.LTable)

	spec := &Spec{
		Library:   stringField(lib, "name"),
		Version:   stringField(lib, "version"),
		Prefix:    stringField(lib, "prefix"),
		GoPackage: stringField(lib, "go_package"),
		Binaries:  make(map[platform.Target]string),
	}
	if spec.Prefix == "" {
		spec.Prefix = DefaultPrefix
	}
	if spec.GoPackage == "" {
		spec.GoPackage = goPackageName(spec.Library)
	}

	binVal := L.GetGlobal("binaries")
	if binVal.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'binaries' table",
			Detail:  fmt.Sprintf("expected table, got %s", binVal.Type()),
		}
	}

	var bad []string
	binVal.(*lua.LTable).ForEach(func(key, value lua.LValue) {
		// Skip nil values (from platform conditionals like platform.when(false, "x"))
		if value.Type() == lua.LTNil {
			return
		}

		if key.Type() != lua.LTString || value.Type() != lua.LTString {
			bad = append(bad, fmt.Sprintf("%s = %s", key.String(), value.Type()))
			return
		}

		target, err := platform.ParseTriple(key.String())
		if err != nil {
			bad = append(bad, err.Error())
			return
		}

		path := value.String()
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, filepath.FromSlash(path))
		}
		spec.Binaries[target] = path
	})
	if len(bad) > 0 {
		return nil, &ParseError{
			Message: "invalid 'binaries' entries",
			Detail:  strings.Join(bad, "; "),
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, &ParseError{
			Message: "pack file validation failed",
			Detail:  err.Error(),
		}
	}
	return spec, nil
}

func stringField(table *lua.LTable, name string) string {
	if v := table.RawGetString(name); v.Type() == lua.LTString {
		return v.String()
	}
	return ""
}

// Validate checks that the spec can produce well-formed entry names.
func (s *Spec) Validate() error {
	if s.Library == "" {
		return fmt.Errorf("library.name is required")
	}
	if s.Version == "" {
		return fmt.Errorf("library.version is required")
	}
	for field, value := range map[string]string{"name": s.Library, "version": s.Version} {
		if strings.ContainsAny(value, `/\ `) || strings.Contains(value, "..") {
			return fmt.Errorf("library.%s %q must not contain path separators, spaces or '..'", field, value)
		}
	}
	if strings.Contains(s.Prefix, "..") || strings.HasPrefix(s.Prefix, "/") {
		return fmt.Errorf("library.prefix %q must be a relative path", s.Prefix)
	}
	if !isGoIdentifier(s.GoPackage) {
		return fmt.Errorf("library.go_package %q is not a valid Go package name", s.GoPackage)
	}
	if len(s.Binaries) == 0 {
		return fmt.Errorf("binaries must declare at least one target")
	}
	return nil
}

// goPackageName derives a package name from a library name.
func goPackageName(library string) string {
	name := strings.ToLower(strings.NewReplacer("-", "", ".", "", "_", "").Replace(library))
	if name == "" || !isGoIdentifier(name) {
		return "nativebinding"
	}
	return name
}

func isGoIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
