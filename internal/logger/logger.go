package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a zap.Logger writing to stderr at level. The json format uses
// the production encoder; console uses the development encoder with
// coloured levels.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	var cfg zap.Config
	switch format {
	case FormatJSON, "":
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("logger: unknown format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel

	return cfg.Build()
}

// MaskHash keeps the "$2b$10$" prefix of an encoded hash and hides the salt
// and digest.
// Example: $2b$10$N9qo8uLOickgx2ZMRZoMye... -> $2b$10$***
func MaskHash(hash string) string {
	if hash == "" {
		return ""
	}
	parts := strings.SplitN(hash, "$", 4)
	if len(parts) == 4 && parts[0] == "" {
		return "$" + parts[1] + "$" + parts[2] + "$***"
	}
	return "***"
}
