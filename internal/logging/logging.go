// Package logging provides a thin wrapper around zap.
// All logging must go through this package so every message carries a category.
package logging

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category constants for consistent logging categories.
const (
	CategoryApp        = "App"
	CategoryConfig     = "Config"
	CategoryRecorder   = "Recorder"
	CategoryCapture    = "Capture"
	CategoryAudio      = "Audio"
	CategoryWriter     = "Writer"
	CategoryTranscribe = "Transcribe"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// Init initializes logging at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func Init(level string) {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}

	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
}

// Shutdown flushes any buffered log entries.
func Shutdown(ctx context.Context) {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message.
func Debug(category, msg string, params ...interface{}) {
	get().With("category", category).Debugf(msg, params...)
}

// Info logs an info message.
func Info(category, msg string, params ...interface{}) {
	get().With("category", category).Infof(msg, params...)
}

// Warning logs a warning message.
func Warning(category, msg string, params ...interface{}) {
	get().With("category", category).Warnf(msg, params...)
}

// Error logs an error message.
func Error(category, msg string, params ...interface{}) {
	get().With("category", category).Errorf(msg, params...)
}

// Fail logs an error message for a fatal condition; the caller decides how to exit.
func Fail(category, msg string, params ...interface{}) {
	get().With("category", category).Errorf(msg, params...)
}
