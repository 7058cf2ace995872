// Package logging provides real-time log output for configsync components.
// The remote renderer is the source of truth for applied state. This package
// provides optional console output for monitoring the reconciliation loop.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger provides structured logging to stdout.
type Logger struct {
	mu        sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
	sessionID string
}

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a string to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// New creates a new Logger.
func New() *Logger {
	return &Logger{
		output:   os.Stdout,
		minLevel: LevelInfo,
	}
}

// WithComponent returns a new logger with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
		sessionID: l.sessionID,
	}
}

// WithSessionID returns a new logger with the given streaming session ID.
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: l.component,
		sessionID: sessionID,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stdout).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return " " + strings.Join(parts, " ")
}

// log writes a log entry in traditional format: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}
	if l.sessionID != "" {
		fieldStr += " session=" + l.sessionID
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- Reconciliation loop logging methods ---
// Called by the store and transports for real-time console output.

// SyncSent logs an outbound state-change message.
func (l *Logger) SyncSent(key, commandType string) {
	l.Debug("sync_sent", map[string]interface{}{
		"key":     key,
		"command": commandType,
	})
}

// AckReceived logs an inbound completion notification.
func (l *Logger) AckReceived(variantSet string, resolved int) {
	l.Debug("ack_received", map[string]interface{}{
		"variant_set": variantSet,
		"resolved":    resolved,
	})
}

// WriteRejected logs a dropped Set call.
func (l *Logger) WriteRejected(key, reason string) {
	l.Warn("write_rejected", map[string]interface{}{
		"key":    key,
		"reason": reason,
	})
}

// ResyncScheduled logs a staleness poll re-send decision.
func (l *Logger) ResyncScheduled(key string, resyncCount int) {
	l.Debug("resync_scheduled", map[string]interface{}{
		"key":          key,
		"resync_count": resyncCount,
	})
}

// TimeoutEscalated logs the terminal staleness failure for a key.
func (l *Logger) TimeoutEscalated(key string, resyncCount int) {
	l.Error("server_response_timed_out", map[string]interface{}{
		"key":          key,
		"resync_count": resyncCount,
	})
}

// MessageDropped logs an inbound message that failed to decode.
func (l *Logger) MessageDropped(reason string) {
	l.Debug("inbound_dropped", map[string]interface{}{
		"reason": reason,
	})
}

// ConnectionChanged logs a transport connectivity transition.
func (l *Logger) ConnectionChanged(state string) {
	l.Info("connection_changed", map[string]interface{}{
		"state": state,
	})
}
