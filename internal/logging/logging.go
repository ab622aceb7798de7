// Package logging hands out scoped leveled loggers for the library packages.
// The run telemetry log is separate and owned by the CLI; these loggers carry
// diagnostics only.
package logging

import (
	"os"
	"strings"

	"github.com/pion/logging"
)

var loggerFactory = newFactory()

func newFactory() *logging.DefaultLoggerFactory {
	factory := logging.NewDefaultLoggerFactory()
	factory.DefaultLogLevel = parseLevel(os.Getenv("FRAMEMILL_LOG_LEVEL"))
	return factory
}

func parseLevel(s string) logging.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logging.LogLevelTrace
	case "debug":
		return logging.LogLevelDebug
	case "info":
		return logging.LogLevelInfo
	case "warn", "warning":
		return logging.LogLevelWarn
	case "disabled", "off":
		return logging.LogLevelDisabled
	default:
		return logging.LogLevelError
	}
}

// NewLogger returns a leveled logger for the given scope. Verbosity is
// controlled process-wide by the FRAMEMILL_LOG_LEVEL environment variable.
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}
