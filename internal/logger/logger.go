package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
	Layer         string
	Component     string
}

// Logger wraps charmbracelet/log with the small field-accumulating API that
// submit.Engine and localexec.Engine take.
type Logger struct {
	base   *cblog.Logger
	fields []interface{}
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	cblogOpts := cblog.Options{
		Level:           level,
		ReportTimestamp: true,
	}
	if !opts.HumanReadable {
		cblogOpts.Formatter = cblog.JSONFormatter
	}

	base := cblog.NewWithOptions(writer, cblogOpts)

	var fields []interface{}
	if opts.Layer != "" {
		fields = append(fields, "layer", opts.Layer)
	}
	if opts.Component != "" {
		fields = append(fields, "component", opts.Component)
	}

	return &Logger{base: base, fields: fields}, nil
}

// Noop returns a Logger that discards everything, for callers that did not
// wire in a real logger.
func Noop() *Logger {
	l, _ := New(Options{Writer: io.Discard, HumanReadable: false})
	return l
}

// WithFields returns a derived logger that always writes the supplied
// fields alongside whatever it already carries.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil || len(fields) == 0 {
		return l
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	next := make([]interface{}, len(l.fields), len(l.fields)+len(fields)*2)
	copy(next, l.fields)
	for _, key := range keys {
		next = append(next, key, fields[key])
	}

	return &Logger{base: l.base, fields: next}
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	l.log(cblog.InfoLevel, msg)
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) {
	l.log(cblog.DebugLevel, msg)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) {
	l.log(cblog.WarnLevel, msg)
}

// Error writes an error log entry including the supplied error context.
func (l *Logger) Error(err error, msg string) {
	if l == nil || l.base == nil {
		return
	}
	fields := append([]interface{}{}, l.fields...)
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	l.base.Error(strings.TrimSpace(msg), fields...)
}

func (l *Logger) log(level cblog.Level, msg string) {
	if l == nil || l.base == nil {
		return
	}
	msg = strings.TrimSpace(msg)
	switch level {
	case cblog.DebugLevel:
		l.base.Debug(msg, l.fields...)
	case cblog.WarnLevel:
		l.base.Warn(msg, l.fields...)
	default:
		l.base.Info(msg, l.fields...)
	}
}
