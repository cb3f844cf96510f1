package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck

	"github.com/ZebulonRouseFrantzich/nekoload/internal/artifact"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/loader"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/testutil"
	"github.com/ZebulonRouseFrantzich/nekoload/nativelib"
)

var (
	linuxAMD64 = platform.Target{OS: platform.Linux, Arch: platform.AMD64}
	winX86     = platform.Target{OS: platform.Windows, Arch: platform.X86}
)

func testSpec(t *testing.T) *Spec {
	t.Helper()
	src := t.TempDir()

	binaries := map[platform.Target]string{
		linuxAMD64: filepath.Join(src, "libdemo.so"),
		winX86:     filepath.Join(src, "demo.dll"),
	}
	for target, path := range binaries {
		if err := os.WriteFile(path, []byte("binary for "+target.Triple()), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	return &Spec{
		Library:   "demo",
		Version:   "1.0.0",
		Prefix:    "native",
		GoPackage: "demo",
		Binaries:  binaries,
	}
}

func TestBuilder_Build(t *testing.T) {
	spec := testSpec(t)
	out := t.TempDir()

	result, err := (&Builder{OutDir: out}).Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.ResourceDir != filepath.Join(out, "native") {
		t.Errorf("ResourceDir = %q", result.ResourceDir)
	}
	if result.KeyringPath != "" {
		t.Errorf("KeyringPath = %q for an unsigned build", result.KeyringPath)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Records = %+v, want 2", result.Records)
	}

	namer := artifact.Namer{Library: "demo", Version: "1.0.0"}
	for _, record := range result.Records {
		t.Run(record.Target.Triple(), func(t *testing.T) {
			wantHash, err := HashFile(spec.Binaries[record.Target])
			if err != nil {
				t.Fatalf("HashFile() error = %v", err)
			}
			if record.Hash != wantHash {
				t.Errorf("Hash = %q, want %q", record.Hash, wantHash)
			}

			manifest, err := os.ReadFile(filepath.Join(result.ResourceDir, namer.ManifestName(record.Target)))
			if err != nil {
				t.Fatalf("manifest not written: %v", err)
			}
			if string(manifest) != wantHash+"\n" {
				t.Errorf("manifest = %q", manifest)
			}

			binary, err := os.ReadFile(filepath.Join(result.ResourceDir, record.BinaryName))
			if err != nil {
				t.Fatalf("binary not written: %v", err)
			}
			if string(binary) != "binary for "+record.Target.Triple() {
				t.Errorf("binary content = %q", binary)
			}

			if _, err := os.Stat(filepath.Join(result.ResourceDir, artifact.SignatureName(namer.ManifestName(record.Target)))); err == nil {
				t.Error("signature written for an unsigned build")
			}
		})
	}
}

func TestBuilder_BuildErrors(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		spec := testSpec(t)
		spec.Binaries[linuxAMD64] = filepath.Join(t.TempDir(), "missing.so")

		if _, err := (&Builder{OutDir: t.TempDir()}).Build(spec); err == nil {
			t.Error("expected error for missing binary")
		}
	})

	t.Run("invalid spec", func(t *testing.T) {
		spec := testSpec(t)
		spec.Version = ""

		if _, err := (&Builder{OutDir: t.TempDir()}).Build(spec); err == nil {
			t.Error("expected error for invalid spec")
		}
	})
}

func TestBuilder_Signed(t *testing.T) {
	signer, err := openpgp.NewEntity("release", "test", "release@example.invalid", nil)
	if err != nil {
		t.Fatalf("failed to create test key: %v", err)
	}

	spec := testSpec(t)
	out := t.TempDir()
	result, err := (&Builder{OutDir: out, Signer: signer}).Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.KeyringPath != filepath.Join(out, KeyringFile) {
		t.Fatalf("KeyringPath = %q", result.KeyringPath)
	}

	keyring, err := os.ReadFile(result.KeyringPath)
	if err != nil {
		t.Fatalf("keyring not written: %v", err)
	}
	verifier, err := artifact.NewVerifier(keyring)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	fsys := os.DirFS(out)
	namer := artifact.Namer{Library: "demo", Version: "1.0.0"}
	for _, target := range spec.Targets() {
		manifestPath := artifact.ResourcePath("native", namer.ManifestName(target))
		_, manifest, err := artifact.ReadHash(fsys, manifestPath)
		if err != nil {
			t.Fatalf("ReadHash() error = %v", err)
		}
		if err := verifier.VerifyManifest(fsys, artifact.SignatureName(manifestPath), manifest); err != nil {
			t.Errorf("%s: VerifyManifest() error = %v", target, err)
		}
	}
}

// A packed tree loads through nativelib exactly like an embedded one.
func TestBuilder_LoadsThroughNativelib(t *testing.T) {
	testutil.SetupTestEnv(t)

	spec := testSpec(t)
	out := t.TempDir()
	if _, err := (&Builder{OutDir: out}).Build(spec); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	rec := &loader.Recorder{}
	lib := nativelib.New(nativelib.Config{
		LibraryName:    spec.Library,
		Version:        spec.Version,
		ResourcePrefix: spec.Prefix,
		Resources:      os.DirFS(out),
		OS:             "linux",
		Arch:           "amd64",
		Loader:         rec,
	})
	if err := lib.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	data, err := os.ReadFile(lib.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "binary for x86_64-unknown-linux-gnu" {
		t.Errorf("loaded binary content = %q", data)
	}
	if len(rec.Paths()) != 1 {
		t.Errorf("loader calls = %v", rec.Paths())
	}
}
