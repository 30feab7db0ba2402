package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level  = new(slog.LevelVar)
	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel changes the minimum level for all package loggers
func SetLevel(l Level) {
	level.Set(l)
}

// ParseLevel maps LOG_LEVEL values to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetOutput redirects log output, mostly for tests
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// With returns a structured logger carrying the given attributes
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

func Debug(msg string, args ...any) { logger.Log(context.Background(), LevelDebug, msg, args...) }
func Info(msg string, args ...any)  { logger.Log(context.Background(), LevelInfo, msg, args...) }
func Warn(msg string, args ...any)  { logger.Log(context.Background(), LevelWarn, msg, args...) }
func Error(msg string, args ...any) { logger.Log(context.Background(), LevelError, msg, args...) }

func Debugf(format string, args ...any) { Debug(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { Warn(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { Error(fmt.Sprintf(format, args...)) }

// Fatalf logs at error level and exits
func Fatalf(format string, args ...any) {
	Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
