// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). The logger is safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the level name as written in config files.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseLevel reads a level name. "info" and "debug" are accepted as
// aliases for normal and verbose.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "off", "quiet", "none":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", name)
	}
}

// levelState is shared between a logger and the children made by With,
// so SetLevel on any of them applies to all.
type levelState struct {
	mu    sync.RWMutex
	level Level
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	state  *levelState
	prefix string
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	flags := log.Ltime

	return &Logger{
		state:  &levelState{level: level},
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

// With returns a logger that tags every line with component. The child
// shares its parent's output and level.
func (l *Logger) With(component string) *Logger {
	child := *l
	child.prefix = l.prefix + component + ": "
	return &child
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.state.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return l.state.level
}

func (l *Logger) output(min Level, dst *log.Logger, format string, args []any) {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	if l.state.level >= min {
		dst.Output(3, l.prefix+fmt.Sprintf(format, args...))
	}
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.output(LevelVerbose, l.debug, format, args)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.output(LevelNormal, l.info, format, args)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.output(LevelNormal, l.warn, format, args)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.output(LevelNormal, l.errLog, format, args)
}
