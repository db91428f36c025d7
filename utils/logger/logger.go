package logger

import (
	"errors"
	"fmt"
)

// Logger is the logging collaborator for retry, memo and decorate.
// All implementations must be safe for concurrent use across multiple goroutines.
type Logger interface {
	// Type returns the type of the logger
	Type() LoggerType
	// Printf logs a formatted message
	Printf(format string, args ...any)
	// Println logs a message with a newline
	Println(message string)
	// Close releases whatever the logger writes to
	Close() error
}

type LoggerType string

const (
	LoggerTypeStdout LoggerType = "stdout"
	LoggerTypeFile   LoggerType = "file"
	LoggerTypeNoop   LoggerType = "noop"
	LoggerTypeWriter LoggerType = "writer"
	LoggerTypeMulti  LoggerType = "multi"
)

// ErrUnknownType is returned by New for an Output it cannot build.
var ErrUnknownType = errors.New("logger: unknown logger type")

// Config selects a logger explicitly. There is no environment lookup:
// a disabled Config always yields a NoopLogger.
type Config struct {
	Enabled bool
	// Output defaults to LoggerTypeStdout.
	Output LoggerType
	// FilePath is required when Output is LoggerTypeFile.
	FilePath string
	// Prefix is prepended to every line.
	Prefix string
}

// New builds the logger described by cfg.
func New(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return NewNoopLogger(), nil
	}

	switch cfg.Output {
	case "", LoggerTypeStdout:
		return NewStdoutLogger().WithPrefix(cfg.Prefix), nil
	case LoggerTypeFile:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("logger: file output needs a path")
		}
		fl, err := NewFileLogger(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return fl.WithPrefix(cfg.Prefix), nil
	case LoggerTypeNoop:
		return NewNoopLogger(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Output)
	}
}

// OrNoop returns l, or a NoopLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NewNoopLogger()
	}
	return l
}

// MultiLogger writes to multiple loggers simultaneously.
// Safe for concurrent use if all underlying loggers are safe.
type MultiLogger struct {
	loggers []Logger
}

var _ Logger = (*MultiLogger)(nil)

// NewMultiLogger creates a logger that writes to multiple destinations
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{
		loggers: loggers,
	}
}

func (m *MultiLogger) Type() LoggerType {
	return LoggerTypeMulti
}

func (m *MultiLogger) Printf(format string, args ...any) {
	for _, logger := range m.loggers {
		logger.Printf(format, args...)
	}
}

func (m *MultiLogger) Println(message string) {
	for _, logger := range m.loggers {
		logger.Println(message)
	}
}

// Close closes every underlying logger and joins their errors.
func (m *MultiLogger) Close() error {
	var errs []error
	for _, logger := range m.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
