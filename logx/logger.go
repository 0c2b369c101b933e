package logx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// OutputFormat defines the log output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// Logger represents a logger instance
type Logger struct {
	mu         sync.Mutex
	level      Level
	out        io.Writer
	prefix     string
	showCaller bool
	colored    bool
	format     OutputFormat

	// parent, when set, owns every setting except prefix
	parent *Logger
}

// New creates a new logger with default settings
func New() *Logger {
	return &Logger{
		level:      InfoLevel,
		out:        os.Stdout,
		showCaller: true,
		colored:    true,
		format:     FormatConsole,
	}
}

// WithPrefix returns a copy of the logger that tags every line with prefix
func (l *Logger) WithPrefix(prefix string) *Logger {
	if l.parent != nil {
		return &Logger{prefix: prefix, parent: l.parent}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		level:      l.level,
		out:        l.out,
		prefix:     prefix,
		showCaller: l.showCaller,
		colored:    l.colored,
		format:     l.format,
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetOutput sets the output destination
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.out = w
	l.mu.Unlock()
}

// SetPrefix sets a prefix for all log messages
func (l *Logger) SetPrefix(prefix string) {
	l.mu.Lock()
	l.prefix = prefix
	l.mu.Unlock()
}

// SetShowCaller enables or disables showing caller information
func (l *Logger) SetShowCaller(show bool) {
	l.mu.Lock()
	l.showCaller = show
	l.mu.Unlock()
}

// SetColored enables or disables colored output
func (l *Logger) SetColored(colored bool) {
	l.mu.Lock()
	l.colored = colored
	l.mu.Unlock()
}

// SetFormat sets the output format. JSON output is never colored.
func (l *Logger) SetFormat(format OutputFormat) {
	l.mu.Lock()
	l.format = format
	if format == FormatJSON {
		l.colored = false
	}
	l.mu.Unlock()
}

// IsLevelEnabled checks if a level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	if l.parent != nil {
		return l.parent.IsLevelEnabled(level)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level && l.level != OffLevel
}

// findCaller finds the first caller outside of the logx package
func findCaller() string {
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(filepath.ToSlash(file), "/logx/") && !strings.HasSuffix(file, "_test.go") {
			continue
		}
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return ""
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if l.parent != nil {
		l.parent.write(l.prefix, level, msg, args...)
		return
	}
	l.write(l.prefix, level, msg, args...)
}

func (l *Logger) write(prefix string, level Level, msg string, args ...any) {
	if !l.IsLevelEnabled(level) {
		return
	}

	message := msg
	if len(args) > 0 {
		message = fmt.Sprintf(msg, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var caller string
	if l.showCaller {
		caller = findCaller()
	}

	if l.format == FormatJSON {
		entry := map[string]any{
			"timestamp": time.Now().Format(time.RFC3339),
			"level":     level.String(),
			"message":   message,
		}
		if prefix != "" {
			entry["prefix"] = prefix
		}
		if caller != "" {
			entry["caller"] = caller
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(l.out, string(data))
		}
		return
	}

	levelStr := level.String()
	if l.colored {
		levelStr = level.Paint()
	}
	if caller != "" {
		caller = " " + caller
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if prefix != "" {
		fmt.Fprintf(l.out, "[%s] %s [%s]%s: %s\n", timestamp, prefix, levelStr, caller, message)
		return
	}
	fmt.Fprintf(l.out, "[%s] [%s]%s: %s\n", timestamp, levelStr, caller, message)
}

// Trace logs a message at trace level
func (l *Logger) Trace(msg string, args ...any) { l.log(TraceLevel, msg, args...) }

// Debug logs a message at debug level
func (l *Logger) Debug(msg string, args ...any) { l.log(DebugLevel, msg, args...) }

// Info logs a message at info level
func (l *Logger) Info(msg string, args ...any) { l.log(InfoLevel, msg, args...) }

// Warn logs a message at warn level
func (l *Logger) Warn(msg string, args ...any) { l.log(WarnLevel, msg, args...) }

// Error logs a message at error level
func (l *Logger) Error(msg string, args ...any) { l.log(ErrorLevel, msg, args...) }

// Fatal logs a message at error level and exits
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(ErrorLevel, msg, args...)
	os.Exit(1)
}
