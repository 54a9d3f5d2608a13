package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log entry
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Entry represents a single log entry
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     Level                  `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Config holds logger configuration
type Config struct {
	Output   io.Writer
	MinLevel Level
	Format   string // "json" or "text"
}

// Logger provides structured logging functionality
type Logger struct {
	output   io.Writer
	minLevel Level
	format   string
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.MinLevel == "" {
		cfg.MinLevel = LevelInfo
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	return &Logger{
		output:   cfg.Output,
		minLevel: cfg.MinLevel,
		format:   cfg.Format,
	}
}

// Default creates a logger with default configuration
func Default() *Logger {
	return New(Config{})
}

// NewWithLevel creates a new logger with a specific log level string
func NewWithLevel(level, format string) *Logger {
	return New(Config{MinLevel: parseLevel(level), Format: format})
}

// Package-level logger instances, one for application logging and one for
// database logging so their levels can differ.
var (
	mu             sync.RWMutex
	appLogger      *Logger
	databaseLogger *Logger
)

// Initialize sets up both singleton loggers from configured level strings
func Initialize(appLevel, dbLevel, format string) {
	mu.Lock()
	defer mu.Unlock()
	appLogger = NewWithLevel(appLevel, format)
	databaseLogger = NewWithLevel(dbLevel, format)
}

// AppLogger returns the singleton application logger instance
func AppLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if appLogger == nil {
		return Default()
	}
	return appLogger
}

// DatabaseLogger returns the singleton database logger instance
func DatabaseLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if databaseLogger == nil {
		return Default()
	}
	return databaseLogger
}

// SetAppLogger sets the application logger (primarily for testing)
func SetAppLogger(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	appLogger = l
}

func parseLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.log(LevelDebug, msg, nil, nil)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.log(LevelInfo, msg, nil, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.log(LevelWarn, msg, nil, nil)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error) {
	l.log(LevelError, msg, nil, err)
}

// WithFields returns a logger that attaches the given fields to every entry
func (l *Logger) WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{logger: l, fields: fields}
}

func (l *Logger) log(level Level, msg string, fields map[string]interface{}, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
		Context:   fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if l.format == "text" {
		fmt.Fprintln(l.output, formatText(entry))
		return
	}

	data, _ := json.Marshal(entry)
	fmt.Fprintln(l.output, string(data))
}

func formatText(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", e.Timestamp, e.Level, e.Message)

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%q", e.Error)
	}
	return b.String()
}

// FieldLogger is a logger with pre-set fields
type FieldLogger struct {
	logger *Logger
	fields map[string]interface{}
}

// Debug logs a debug message with fields
func (fl *FieldLogger) Debug(msg string) {
	fl.logger.log(LevelDebug, msg, fl.fields, nil)
}

// Info logs an info message with fields
func (fl *FieldLogger) Info(msg string) {
	fl.logger.log(LevelInfo, msg, fl.fields, nil)
}

// Warn logs a warning message with fields
func (fl *FieldLogger) Warn(msg string) {
	fl.logger.log(LevelWarn, msg, fl.fields, nil)
}

// Error logs an error message with fields
func (fl *FieldLogger) Error(msg string, err error) {
	fl.logger.log(LevelError, msg, fl.fields, err)
}
