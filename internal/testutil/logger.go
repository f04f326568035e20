// Package testutil holds fakes shared by package tests.
package testutil

import (
	"strings"

	"github.com/coachpo/framepool/internal/observability"
)

// Entry is one captured log line.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// RecordingLogger captures log entries in memory.
type RecordingLogger struct {
	Entries []Entry
}

var _ observability.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger returns an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) record(level, msg string, fields []observability.Field) {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.Entries = append(l.Entries, Entry{Level: level, Message: msg, Fields: m})
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(msg string, fields ...observability.Field) {
	l.record("debug", msg, fields)
}

// Info records an info entry.
func (l *RecordingLogger) Info(msg string, fields ...observability.Field) {
	l.record("info", msg, fields)
}

// Warn records a warn entry.
func (l *RecordingLogger) Warn(msg string, fields ...observability.Field) {
	l.record("warn", msg, fields)
}

// Error records an error entry.
func (l *RecordingLogger) Error(msg string, fields ...observability.Field) {
	l.record("error", msg, fields)
}

// Warnings returns warn entries whose message contains substr.
func (l *RecordingLogger) Warnings(substr string) []Entry {
	var out []Entry
	for _, e := range l.Entries {
		if e.Level == "warn" && strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}
