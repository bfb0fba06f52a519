package logger

import (
	"log/slog"
	"os"
)

// Log is the global logger instance. It defaults to slog's default logger so
// packages can log before Setup runs (init paths, tests).
var Log = slog.Default()

// Setup initializes the global logger. Production emits JSON at info level;
// everything else gets human-readable text with debug enabled.
func Setup(env string) {
	level := slog.LevelDebug
	if env == "production" {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
