package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaskSensitiveInfo keeps the first and last 4 characters of a secret and
// blanks the middle. Short secrets are fully masked.
func MaskSensitiveInfo(info string) string {
	if info == "" {
		return ""
	}
	if len(info) <= 8 {
		return "****"
	}
	return info[:4] + strings.Repeat("*", len(info)-8) + info[len(info)-4:]
}

// NewMaskedLogger wraps a logger so that token-like string fields are
// masked before they hit any sink.
func NewMaskedLogger(baseLogger *zap.Logger) *zap.Logger {
	return baseLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &maskedCore{Core: core}
	}))
}

type maskedCore struct {
	zapcore.Core
}

func (c *maskedCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *maskedCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	for i, field := range fields {
		if isSensitiveField(field.Key) && field.Type == zapcore.StringType {
			fields[i] = zap.String(field.Key, MaskSensitiveInfo(field.String))
		}
	}
	return c.Core.Write(entry, fields)
}

func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "api_key") ||
		strings.Contains(key, "apikey") ||
		strings.Contains(key, "password") ||
		strings.Contains(key, "token") ||
		strings.Contains(key, "secret")
}
