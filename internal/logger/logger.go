// Package logger provides structured logging for pdfstruct
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with pdfstruct-specific helpers
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // human readable console output
	Output     io.Writer
	WithCaller bool
}

// ParseLevel maps a configured level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new structured logger. Output defaults to stderr so
// stdout stays free for JSON and the MCP stdio transport.
func NewLogger(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "pdfstruct").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info starts an info event
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Debug starts a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn starts a warning event
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Error starts an error event
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// PipelineLogger returns a logger for one structuring run
func (l *Logger) PipelineLogger(sourceFile string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "pipeline").
			Str("source_file", sourceFile).
			Logger(),
	}
}

// MCPLogger returns a logger for MCP tool calls
func (l *Logger) MCPLogger(tool string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "mcp").
			Str("tool", tool).
			Logger(),
	}
}

// LogPageWarning logs a recoverable extraction failure
func (l *Logger) LogPageWarning(page int, stage string, err error) {
	l.zlog.Warn().
		Str("event", "extraction_warning").
		Int("page", page).
		Str("stage", stage).
		Err(err).
		Msg("Extraction step failed, continuing")
}

// LogPageDone logs the entries produced for a page
func (l *Logger) LogPageDone(page int, entries int, duration time.Duration) {
	l.zlog.Debug().
		Str("event", "page_done").
		Int("page", page).
		Int("entries", entries).
		Dur("duration_ms", duration).
		Msg("Page structured")
}

// LogRunComplete logs the end of a structuring run
func (l *Logger) LogRunComplete(pages int, warnings int, duration time.Duration) {
	l.zlog.Debug().
		Str("event", "run_complete").
		Int("pages", pages).
		Int("warnings", warnings).
		Dur("duration_ms", duration).
		Msg("Structuring run complete")
}
