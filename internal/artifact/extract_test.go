package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"
)

func TestExtractor_Extract(t *testing.T) {
	fsys := fstest.MapFS{
		"native/libdemo.so": {Data: []byte("\x7fELF fake library")},
		"native/dir":        {Mode: os.ModeDir},
	}
	extractor := NewExtractor(fsys)

	t.Run("writes content", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "libdemo.so")
		if err := extractor.Extract("native/libdemo.so", dest); err != nil {
			t.Fatalf("Extract() error = %v", err)
		}

		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("failed to read extracted file: %v", err)
		}
		if string(data) != "\x7fELF fake library" {
			t.Errorf("content = %q", data)
		}

		if runtime.GOOS != "windows" {
			info, err := os.Stat(dest)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Mode().Perm()&0100 == 0 {
				t.Errorf("mode = %v, want owner-executable", info.Mode())
			}
		}
	})

	t.Run("overwrites in place", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "libdemo.so")
		if err := os.WriteFile(dest, []byte("stale content that is longer than the new one"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := extractor.Extract("native/libdemo.so", dest); err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		data, _ := os.ReadFile(dest)
		if string(data) != "\x7fELF fake library" {
			t.Errorf("content = %q, want truncated rewrite", data)
		}
	})

	t.Run("missing resource", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "libdemo.so")
		err := extractor.Extract("native/missing.so", dest)
		if !errors.Is(err, ErrResourceNotFound) {
			t.Fatalf("Extract() error = %v, want ErrResourceNotFound", err)
		}
		if _, err := os.Stat(dest); !os.IsNotExist(err) {
			t.Error("destination should not be created for a missing resource")
		}
	})

	t.Run("unwritable destination", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "no", "such", "dir", "libdemo.so")
		err := extractor.Extract("native/libdemo.so", dest)
		if !errors.Is(err, ErrExtraction) {
			t.Fatalf("Extract() error = %v, want ErrExtraction", err)
		}
	})
}

func TestExtractor_Exists(t *testing.T) {
	fsys := fstest.MapFS{
		"native/libdemo.so": {Data: []byte("x")},
	}
	extractor := NewExtractor(fsys)

	if !extractor.Exists("native/libdemo.so") {
		t.Error("Exists() = false for present entry")
	}
	if extractor.Exists("native/other.so") {
		t.Error("Exists() = true for missing entry")
	}
	if extractor.Exists("native") {
		t.Error("Exists() = true for a directory")
	}
}
