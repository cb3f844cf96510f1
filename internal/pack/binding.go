package pack

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path"
	"text/template"
)

// BindingFile is the file name GenerateBinding output is written to.
const BindingFile = "nativelib_gen.go"

var bindingTemplate = template.Must(template.New("binding").Parse(`// Code generated by nekopack. DO NOT EDIT.

package {{.GoPackage}}

import (
	"embed"

	"github.com/ZebulonRouseFrantzich/nekoload/nativelib"
)

//go:embed {{.Prefix}}
var nativeResources embed.FS
{{if .Keyring}}
//go:embed {{.Keyring}}
var nativeKeyring []byte
{{end}}
var nativeLibrary = nativelib.New(nativelib.Config{
	LibraryName:    {{printf "%q" .Library}},
	Version:        {{printf "%q" .Version}},
	ResourcePrefix: {{printf "%q" .Prefix}},
	Resources:      nativeResources,
{{- if .Keyring}}
	Keyring:        nativeKeyring,
{{- end}}
})

// Init loads the {{.Library}} native library. Calling it again is cheap and
// returns the result of the first call.
func Init() error {
	return nativeLibrary.Init()
}
`))

type bindingData struct {
	GoPackage string
	Library   string
	Version   string
	Prefix    string
	Keyring   string
}

// GenerateBinding returns the Go source of the binding for spec. keyring is
// the embed path of the public key, or empty for unsigned builds. The
// binding must live in the directory that holds the resource tree.
func GenerateBinding(spec *Spec, keyring string) ([]byte, error) {
	var buf bytes.Buffer
	err := bindingTemplate.Execute(&buf, bindingData{
		GoPackage: spec.GoPackage,
		Library:   spec.Library,
		Version:   spec.Version,
		Prefix:    path.Clean(spec.Prefix),
		Keyring:   keyring,
	})
	if err != nil {
		return nil, fmt.Errorf("render binding: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format binding: %w", err)
	}
	return src, nil
}

// WriteBinding renders the binding and writes it to dest.
func WriteBinding(dest string, spec *Spec, keyring string) error {
	src, err := GenerateBinding(spec, keyring)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, src, 0o644)
}
