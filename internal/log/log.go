// Package log provides the process-wide zap logger used by the command-line
// tools.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var (
	sugar      *zap.SugaredLogger
	baseLogger *zap.Logger
)

// Init initializes the package-level logger.
func Init(debug bool) error {
	var (
		zapLogger *zap.Logger
		err       error
	)
	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}

	baseLogger = zapLogger
	sugar = zapLogger.Sugar()
	return nil
}

// Logger returns the base logger, to be handed to library options such as
// visit.WithLogger. A no-op logger is returned before Init.
func Logger() *zap.Logger {
	if baseLogger == nil {
		return zap.NewNop()
	}
	return baseLogger
}

// Sugared returns the sugared logger.
func Sugared() *zap.SugaredLogger {
	if sugar == nil {
		return zap.NewNop().Sugar()
	}
	return sugar
}

// Sync flushes any buffered log entries.
func Sync() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func Debugw(msg string, keysAndValues ...interface{}) {
	Sugared().Debugw(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	Sugared().Infow(msg, keysAndValues...)
}

func Infof(template string, args ...interface{}) {
	Sugared().Infof(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	Sugared().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	Sugared().Errorw(msg, keysAndValues...)
}
