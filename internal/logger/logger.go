// Package logger is the process-wide zap logger. Until Initialize runs every call is
// a no-op, so library code can log unconditionally.
package logger

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

type Configuration struct {
	LogFile   string
	ErrorFile string
	Level     string
	Console   bool
}

// Initialize replaces the logger. An unknown level falls back to info; a log file
// that cannot be opened is an error and leaves the previous logger in place.
func Initialize(configuration Configuration) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(configuration.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core

	files := []struct {
		path  string
		level zapcore.LevelEnabler
	}{
		{configuration.LogFile, level},
		{configuration.ErrorFile, zapcore.ErrorLevel},
	}
	for _, file := range files {
		if file.path == "" {
			continue
		}
		out, err := os.OpenFile(file.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrapf(err, "logger: cannot open %s", file.path)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(out), file.level))
	}

	// stderr keeps stdout clean for command output
	if configuration.Console {
		consoleConfig := encoderConfig
		consoleConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), level))
	}

	if len(cores) == 0 {
		log = zap.NewNop()
		return nil
	}

	log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return nil
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = log.Sync()
}

type fieldsKey struct{}

// WithFields returns a context whose *Context log calls carry fields, e.g. the request
// id of the write being submitted.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return context.WithValue(ctx, fieldsKey{}, withContext(ctx, fields))
}

func withContext(ctx context.Context, fields []zap.Field) []zap.Field {
	scoped, _ := ctx.Value(fieldsKey{}).([]zap.Field)
	if len(scoped) == 0 {
		return fields
	}

	merged := make([]zap.Field, 0, len(scoped)+len(fields))
	merged = append(merged, scoped...)
	return append(merged, fields...)
}

func Debug(message string, fields ...zap.Field) {
	log.Debug(message, fields...)
}

func Info(message string, fields ...zap.Field) {
	log.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	log.Warn(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	log.Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	log.Fatal(message, fields...)
}

func DebugContext(ctx context.Context, message string, fields ...zap.Field) {
	log.Debug(message, withContext(ctx, fields)...)
}

func InfoContext(ctx context.Context, message string, fields ...zap.Field) {
	log.Info(message, withContext(ctx, fields)...)
}

func WarnContext(ctx context.Context, message string, fields ...zap.Field) {
	log.Warn(message, withContext(ctx, fields)...)
}

func ErrorContext(ctx context.Context, message string, fields ...zap.Field) {
	log.Error(message, withContext(ctx, fields)...)
}
