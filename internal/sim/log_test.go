package sim

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		got, err := ResolveLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ResolveLogLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ResolveLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") {
		t.Fatalf("unexpected log output %q", out)
	}

	if _, err := NewLogger(&buf, "nope"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
