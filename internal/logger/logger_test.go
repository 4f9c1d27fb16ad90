package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidLevel(tt.in); got != tt.want {
				t.Errorf("ValidLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromZap_WritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(String("component", "test"))

	l.Warn("remote failed", Error(errors.New("boom")), Int("status", 500))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["component"] != "test" {
		t.Errorf("expected component field, got %v", ctx)
	}
	if ctx["status"] != int64(500) {
		t.Errorf("expected status 500, got %v", ctx["status"])
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.Info("ignored")
	l.Debugf("ignored %d", 1)
	_ = l.Sync()
}
