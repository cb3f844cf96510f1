package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestOrNoop(t *testing.T) {
	if OrNoop(nil) == nil {
		t.Fatal("OrNoop(nil) returned nil")
	}

	// Must not panic.
	l := OrNoop(nil)
	l.Debug("debug", "key", "value")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	cli, err := NewCLI(&bytes.Buffer{}, "", "info")
	if err != nil {
		t.Fatalf("NewCLI() error = %v", err)
	}
	if OrNoop(cli) != Logger(cli) {
		t.Error("OrNoop replaced a non-nil logger")
	}
}

func TestNewCLI(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantErr   bool
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug", level: "debug", wantDebug: true, wantInfo: true},
		{name: "info", level: "info", wantInfo: true},
		{name: "error", level: "error"},
		{name: "invalid", level: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewCLI(&buf, "nekocache", tt.level)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCLI() error = %v", err)
			}

			logger.Debug("debug line")
			logger.Info("info line", "binary", "libdemo.so")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v:\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v:\n%s", got, tt.wantInfo, out)
			}
			if tt.wantInfo && !strings.Contains(out, "libdemo.so") {
				t.Errorf("key-value pair missing:\n%s", out)
			}
		})
	}
}
