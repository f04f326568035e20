package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats understood by NewZerologLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger builds a zerolog-backed Logger writing to w. An empty level
// defaults to info and an empty format defaults to console output.
func NewZerologLogger(w io.Writer, level, format string) (*ZerologLogger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl := zerolog.InfoLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(trimmed))
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		lvl = parsed
	}

	// Loggers are shared across goroutines.
	w = zerolog.SyncWriter(w)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return nil, fmt.Errorf("log format %q: unsupported", format)
	}

	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &ZerologLogger{log: zl}, nil
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: zl}
}

// Debug logs at debug level.
func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	l.emit(l.log.Debug(), msg, fields)
}

// Info logs at info level.
func (l *ZerologLogger) Info(msg string, fields ...Field) {
	l.emit(l.log.Info(), msg, fields)
}

// Warn logs at warn level.
func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	l.emit(l.log.Warn(), msg, fields)
}

// Error logs at error level.
func (l *ZerologLogger) Error(msg string, fields ...Field) {
	l.emit(l.log.Error(), msg, fields)
}

func (l *ZerologLogger) emit(event *zerolog.Event, msg string, fields []Field) {
	if event == nil {
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			event = event.AnErr(f.Key, v)
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	event.Msg(msg)
}
