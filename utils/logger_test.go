package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.raw); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerWithWriters(&out, &errOut, LevelWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("failed %s", "badly")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("messages below warn should be dropped, got %q", out.String())
	}
	if !strings.Contains(out.String(), "shown 3") {
		t.Errorf("warn message missing from %q", out.String())
	}
	if !strings.Contains(errOut.String(), "failed badly") {
		t.Errorf("error message missing from %q", errOut.String())
	}
}

func TestDiscardWritesNothing(t *testing.T) {
	l := Discard()
	l.Error("nothing to see")
	l.SetLevel(LevelDebug)
	l.Debug("still nothing")
}
