// Package logging provides the leveled, structured logger used across the studio.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelFatal LogLevel = "fatal"
)

func (l LogLevel) rank() int {
	switch l {
	case LevelDebug:
		return 0
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	case LevelFatal:
		return 4
	default:
		return 1
	}
}

// LogFormat represents the output format for logs
type LogFormat string

const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

// sink is shared by a logger and every child derived from it.
type sink struct {
	mu     sync.Mutex
	out    io.Writer
	level  LogLevel
	format LogFormat
}

// Logger writes entries with a fixed set of contextual fields.
// Children created by WithField/WithFields share the parent's output.
type Logger struct {
	sink   *sink
	fields map[string]interface{}
}

// LogEntry is the JSON shape of one log line
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
}

// NewLogger creates a logger writing to stdout
func NewLogger(level LogLevel, format LogFormat) *Logger {
	return NewLoggerWithOutput(level, format, os.Stdout)
}

// NewLoggerWithOutput creates a logger writing to w
func NewLoggerWithOutput(level LogLevel, format LogFormat, w io.Writer) *Logger {
	return &Logger{
		sink: &sink{out: w, level: level, format: format},
	}
}

// WithField returns a child logger carrying key=value
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child logger carrying all given fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{sink: l.sink, fields: merged}
}

// WithError returns a child logger carrying the error text
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *Logger) Debug(message string) { l.write(LevelDebug, message) }
func (l *Logger) Info(message string)  { l.write(LevelInfo, message) }
func (l *Logger) Warn(message string)  { l.write(LevelWarn, message) }
func (l *Logger) Error(message string) { l.write(LevelError, message) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

// Fatal logs and exits the process
func (l *Logger) Fatal(message string) {
	l.write(LevelFatal, message)
	os.Exit(1)
}

// SetLevel changes the minimum level for this logger and its children
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

// SetOutput redirects this logger and its children
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	l.sink.out = w
	l.sink.mu.Unlock()
}

func (l *Logger) write(level LogLevel, message string) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if level.rank() < l.sink.level.rank() {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     string(level),
		Message:   message,
		Fields:    l.fields,
	}
	if level.rank() >= LevelError.rank() {
		if _, file, line, ok := runtime.Caller(2); ok {
			entry.Caller = fmt.Sprintf("%s:%d", file, line)
		}
	}

	if l.sink.format == FormatText {
		fmt.Fprintln(l.sink.out, formatText(entry))
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.sink.out, `{"level":"error","message":"unencodable log entry: %v"}`+"\n", err)
		return
	}
	fmt.Fprintln(l.sink.out, string(data))
}

func formatText(entry LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", entry.Timestamp, entry.Level, entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	if entry.Caller != "" {
		fmt.Fprintf(&b, " caller=%s", entry.Caller)
	}
	return b.String()
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLogger(LevelInfo, FormatJSON)
)

// InitGlobalLogger replaces the process-wide logger
func InitGlobalLogger(level LogLevel, format LogFormat) {
	SetGlobalLogger(NewLogger(level, format))
}

// SetGlobalLogger installs l as the process-wide logger
func SetGlobalLogger(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// GetGlobalLogger returns the process-wide logger
func GetGlobalLogger() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

type loggerKey struct{}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves a logger from the context, falling back to the global one
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return logger
	}
	return GetGlobalLogger()
}

// WithField adds a field to the global logger
func WithField(key string, value interface{}) *Logger {
	return GetGlobalLogger().WithField(key, value)
}

// WithFields adds multiple fields to the global logger
func WithFields(fields map[string]interface{}) *Logger {
	return GetGlobalLogger().WithFields(fields)
}

// WithError adds an error to the global logger
func WithError(err error) *Logger {
	return GetGlobalLogger().WithError(err)
}

// Info logs an info message using the global logger
func Info(message string) {
	GetGlobalLogger().Info(message)
}

// ParseLogLevel parses a string into a LogLevel, defaulting to info
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// ParseLogFormat parses a string into a LogFormat, defaulting to json
func ParseLogFormat(format string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return FormatText
	}
	return FormatJSON
}
