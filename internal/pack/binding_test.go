package pack

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateBinding(t *testing.T) {
	spec := &Spec{Library: "demo", Version: "1.0.0", Prefix: "native", GoPackage: "demo"}

	tests := []struct {
		name    string
		keyring string
		want    []string
		notWant []string
	}{
		{
			name: "unsigned",
			want: []string{
				"// Code generated by nekopack. DO NOT EDIT.",
				"package demo",
				"//go:embed native\n",
				`LibraryName:    "demo",`,
				`Version:        "1.0.0",`,
				`ResourcePrefix: "native",`,
				"func Init() error {",
			},
			notWant: []string{"nativeKeyring"},
		},
		{
			name:    "signed",
			keyring: KeyringFile,
			want: []string{
				"//go:embed " + KeyringFile,
				"var nativeKeyring []byte",
				"Keyring:        nativeKeyring,",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := GenerateBinding(spec, tt.keyring)
			if err != nil {
				t.Fatalf("GenerateBinding() error = %v", err)
			}

			if _, err := parser.ParseFile(token.NewFileSet(), "binding.go", src, parser.ParseComments); err != nil {
				t.Fatalf("generated binding does not parse: %v\n%s", err, src)
			}
			for _, w := range tt.want {
				if !strings.Contains(string(src), w) {
					t.Errorf("binding missing %q:\n%s", w, src)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(string(src), w) {
					t.Errorf("binding should not contain %q:\n%s", w, src)
				}
			}
		})
	}
}

func TestGenerateBinding_QuotesValues(t *testing.T) {
	spec := &Spec{Library: "de\"mo", Version: "1", Prefix: "native", GoPackage: "demo"}

	src, err := GenerateBinding(spec, "")
	if err != nil {
		t.Fatalf("GenerateBinding() error = %v", err)
	}
	if !strings.Contains(string(src), `"de\"mo"`) {
		t.Errorf("library name not quoted:\n%s", src)
	}
}

func TestWriteBinding(t *testing.T) {
	spec := &Spec{Library: "demo", Version: "1.0.0", Prefix: "native", GoPackage: "demo"}
	dest := filepath.Join(t.TempDir(), BindingFile)

	if err := WriteBinding(dest, spec, ""); err != nil {
		t.Fatalf("WriteBinding() error = %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("binding not written: %v", err)
	}
}
