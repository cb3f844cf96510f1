package artifact

import (
	"testing"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

func TestNamer_Name(t *testing.T) {
	namer := Namer{Library: "test_classes", Version: "0.1.0"}

	linux := platform.Target{OS: platform.Linux, Arch: platform.AMD64}
	mac := platform.Target{OS: platform.MacOS, Arch: platform.AArch64}
	win := platform.Target{OS: platform.Windows, Arch: platform.X86}

	tests := []struct {
		name   string
		target platform.Target
		hash   string
		kind   Kind
		want   string
	}{
		{"linux manifest", linux, "", KindManifest, "libtest_classes-0.1.0.x86_64-unknown-linux-gnu.hash"},
		{"linux binary", linux, "0123456789abcdef", KindBinary, "libtest_classes-0.1.0.x86_64-unknown-linux-gnu.0123456789abcdef.so"},
		{"mac manifest", mac, "", KindManifest, "libtest_classes-0.1.0.aarch64-apple-darwin.hash"},
		{"mac binary", mac, "ff", KindBinary, "libtest_classes-0.1.0.aarch64-apple-darwin.ff.dylib"},
		{"windows manifest", win, "", KindManifest, "test_classes-0.1.0.x86-pc-windows-msvc.hash"},
		{"windows binary", win, "ff", KindBinary, "test_classes-0.1.0.x86-pc-windows-msvc.ff.dll"},
		{"manifest ignores hash", linux, "ignored", KindManifest, "libtest_classes-0.1.0.x86_64-unknown-linux-gnu.hash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := namer.Name(tt.target, tt.hash, tt.kind); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNamer_DistinctVariants(t *testing.T) {
	namers := []Namer{
		{Library: "a", Version: "1"},
		{Library: "a", Version: "2"},
		{Library: "b", Version: "1"},
	}
	hashes := []string{"h1", "h2"}

	seen := make(map[string]string)
	for _, n := range namers {
		for _, target := range platform.AllTargets() {
			for _, h := range hashes {
				name := n.BinaryName(target, h)
				key := n.Library + "/" + n.Version + "/" + target.Triple() + "/" + h
				if prev, ok := seen[name]; ok {
					t.Errorf("%q produced by both %s and %s", name, prev, key)
				}
				seen[name] = key
			}
		}
	}
}

func TestNamer_Record(t *testing.T) {
	namer := Namer{Library: "demo", Version: "2.0"}
	target := platform.Target{OS: platform.Linux, Arch: platform.AArch64}

	rec := namer.Record(target, "abcd")
	if rec.BinaryName != "libdemo-2.0.aarch64-unknown-linux-gnu.abcd.so" {
		t.Errorf("BinaryName = %q", rec.BinaryName)
	}
	if rec.LockName != rec.BinaryName+".lock" {
		t.Errorf("LockName = %q", rec.LockName)
	}
	if rec.Hash != "abcd" || rec.Version != "2.0" || rec.Target != target {
		t.Errorf("Record = %+v", rec)
	}
}

func TestResourcePath(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"native", "a.hash", "native/a.hash"},
		{"/native/", "a.hash", "native/a.hash"},
		{"moe/lymia/native", "a.so", "moe/lymia/native/a.so"},
		{"", "a.so", "a.so"},
		{"/", "a.so", "a.so"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ResourcePath(tt.prefix, tt.name); got != tt.want {
				t.Errorf("ResourcePath(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
			}
		})
	}
}

func TestLockNames(t *testing.T) {
	if !IsLockName(LockName("libx.so")) {
		t.Error("LockName result should be recognized as a lock name")
	}
	if IsLockName("libx.so") {
		t.Error("binary name should not be recognized as a lock name")
	}
	if got := SignatureName("x.hash"); got != "x.hash.asc" {
		t.Errorf("SignatureName() = %q", got)
	}
}

func TestKind_String(t *testing.T) {
	if KindManifest.String() != "manifest" || KindBinary.String() != "binary" || Kind(9).String() != "unknown" {
		t.Error("unexpected Kind.String() output")
	}
}
