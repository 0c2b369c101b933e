package logx

import (
	"io"
	"os"
	"strings"
)

var defaultLogger *Logger

func init() {
	defaultLogger = New()

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		if level, err := ParseLevel(logLevel); err == nil {
			defaultLogger.SetLevel(level)
		}
	}

	if format := os.Getenv("LOG_FORMAT"); strings.EqualFold(format, "json") {
		defaultLogger.SetFormat(FormatJSON)
	}

	if colorEnv := os.Getenv("LOG_COLOR"); colorEnv != "" {
		defaultLogger.SetColored(strings.ToLower(colorEnv) != "false")
	}

	if callerEnv := os.Getenv("LOG_CALLER"); callerEnv != "" {
		defaultLogger.SetShowCaller(strings.ToLower(callerEnv) != "false")
	}
}

// SetLevel sets the global log level
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// SetOutput sets the global output destination
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

// SetFormat sets the global log format
func SetFormat(format OutputFormat) { defaultLogger.SetFormat(format) }

// SetColored sets the global colored output
func SetColored(colored bool) { defaultLogger.SetColored(colored) }

// GetLogger returns the default logger instance
func GetLogger() *Logger { return defaultLogger }

// Named returns a logger tagged with name that keeps following the
// default logger's level, output and format
func Named(name string) *Logger { return &Logger{prefix: name, parent: defaultLogger} }

func Trace(msg string, args ...any) { defaultLogger.Trace(msg, args...) }
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
func Fatal(msg string, args ...any) { defaultLogger.Fatal(msg, args...) }

// IsLevelEnabled checks if a level is enabled globally
func IsLevelEnabled(level Level) bool { return defaultLogger.IsLevelEnabled(level) }
