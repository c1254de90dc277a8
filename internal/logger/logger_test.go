package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	cases := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", FormatConsole, zapcore.DebugLevel},
		{"info", FormatJSON, zapcore.InfoLevel},
		{"warn", "", zapcore.WarnLevel},
		{"error", FormatJSON, zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		lg, err := New(tc.level, tc.format)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tc.level, tc.format, err)
		}
		if !lg.Core().Enabled(tc.want) {
			t.Errorf("New(%q, %q): level %s disabled", tc.level, tc.format, tc.want)
		}
		if tc.want > zapcore.DebugLevel && lg.Core().Enabled(tc.want-1) {
			t.Errorf("New(%q, %q): level %s should be disabled", tc.level, tc.format, tc.want-1)
		}
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New("loud", FormatJSON); err == nil {
		t.Error("expected an error for an unknown level")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestMaskHash(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"$2b$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", "$2b$10$***"},
		{"$2$04$UIdbgxKHq5Q5n6jtFvHVpe", "$2$04$***"},
		{"not-a-hash", "***"},
		{"$2b$10", "***"},
	}
	for _, tc := range cases {
		if got := MaskHash(tc.in); got != tc.want {
			t.Errorf("MaskHash(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
