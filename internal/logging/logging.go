// Package logging provides the structured logger shared across the CLI
// and the MCP server. It wraps zap the way the rest of the ecosystem
// does: a sugared logger for call-site convenience, a mode switch between
// development (console, debug level) and production (JSON) encoders.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// Logger wraps a zap.SugaredLogger with the small fixed set of levels the
// pipeline and CLI actually use.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger for mode ("production"/"prod" or anything else for
// development). Production emits JSON at info level; development emits
// console-formatted output at debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: zapLogger.Sugar()}, nil
}

// Sync flushes any buffered log entries. Call it before process exit.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) { l.sugar.Debugw(msg, keysAndValues...) }
func (l *Logger) Info(msg string, keysAndValues ...interface{})  { l.sugar.Infow(msg, keysAndValues...) }
func (l *Logger) Warn(msg string, keysAndValues ...interface{})  { l.sugar.Warnw(msg, keysAndValues...) }
func (l *Logger) Error(msg string, keysAndValues ...interface{}) { l.sugar.Errorw(msg, keysAndValues...) }

// With returns a Logger with keysAndValues attached to every subsequent
// entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}
