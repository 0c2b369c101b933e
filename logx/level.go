package logx

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity level of a log message
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	OffLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case OffLevel:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "OFF":
		return OffLevel, nil
	default:
		return InfoLevel, fmt.Errorf("invalid log level: %s", s)
	}
}

var levelColors = map[Level]*color.Color{
	TraceLevel: color.New(color.FgHiBlack),
	DebugLevel: color.New(color.FgCyan),
	InfoLevel:  color.New(color.FgGreen),
	WarnLevel:  color.New(color.FgYellow),
	ErrorLevel: color.New(color.FgRed, color.Bold),
}

// Paint renders the level name in its console color
func (l Level) Paint() string {
	c, ok := levelColors[l]
	if !ok {
		return l.String()
	}
	c.EnableColor()
	return c.Sprint(l.String())
}
