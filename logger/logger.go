// Package logger wraps zap behind the field-map interface used across jwtpizza.
package logger

import (
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Name is the root logger name stamped on every entry.
const Name = "jwtpizza"

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
	WithError(err error) Logger
}

// ParseLevel maps a configured level name onto zap. Unknown names fall back to info.
func ParseLevel(name string) zapcore.Level {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return level
}

// New builds the server's zap logger. "json" selects the production encoder with ISO
// timestamps; anything else gives colored console output.
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Named(Name), nil
}

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) { l.z.Debug(msg, toFields(fields)...) }
func (l *zapLogger) Info(msg string, fields map[string]interface{})  { l.z.Info(msg, toFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields map[string]interface{})  { l.z.Warn(msg, toFields(fields)...) }
func (l *zapLogger) Error(msg string, fields map[string]interface{}) { l.z.Error(msg, toFields(fields)...) }

func (l *zapLogger) With(fields map[string]interface{}) Logger {
	return &zapLogger{z: l.z.With(toFields(fields)...)}
}

func (l *zapLogger) WithError(err error) Logger {
	return &zapLogger{z: l.z.With(zap.Error(err))}
}

// toFields emits keys in sorted order so console lines read the same every time.
func toFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

func NewStructured(level, format string) (Logger, error) {
	z, err := New(level, format)
	if err != nil {
		return nil, err
	}
	return &zapLogger{z: z}, nil
}

// FromZap adopts an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

func NewTestLogger(t testing.TB) Logger {
	return &zapLogger{z: zaptest.NewLogger(t).Named(Name)}
}

func NewNoOpLogger() Logger {
	return &zapLogger{z: zap.NewNop()}
}
