// Package logging configures structured logging for the medsafe API.
// It writes text logs to the console and JSON logs to weekly rotating files,
// and exposes package-level helpers so every package logs through the same
// slog instance.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

type LoggingService struct {
	Logger *slog.Logger
	writer *RotatingWriter
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance writing to logDir.
func InitLogger(logDir, level string, retentionWeeks int, maxFileSize int64) {
	writer, logger := setupLogger(logDir, parseLevel(level), retentionWeeks, maxFileSize)
	DefaultLoggingService = &LoggingService{Logger: logger, writer: writer}
	slog.SetDefault(logger)
}

// Shutdown closes the rotating file writer, flushing pending log data.
func Shutdown() {
	if DefaultLoggingService != nil && DefaultLoggingService.writer != nil {
		_ = DefaultLoggingService.writer.Close()
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fallbackLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallbackLogger(slog.LevelInfo).Info(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallbackLogger(slog.LevelWarn).Warn(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallbackLogger(slog.LevelError).Error(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		fallbackLogger(slog.LevelDebug).Debug(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Debug(msg, args...)
}
