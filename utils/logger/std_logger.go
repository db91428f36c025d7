package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger writes through a standard library *log.Logger.
// It backs both the stdout and the io.Writer outputs; thread safety of the
// writer variant depends on the underlying writer.
type StdLogger struct {
	logger *log.Logger
	kind   LoggerType
}

var _ Logger = (*StdLogger)(nil)

// NewStdoutLogger creates a new logger that writes to stdout
func NewStdoutLogger() *StdLogger {
	return &StdLogger{
		logger: log.New(os.Stdout, "", log.LstdFlags),
		kind:   LoggerTypeStdout,
	}
}

// NewWriterLogger creates a logger from any io.Writer
func NewWriterLogger(w io.Writer) *StdLogger {
	return &StdLogger{
		logger: log.New(w, "", log.LstdFlags),
		kind:   LoggerTypeWriter,
	}
}

// WithPrefix sets the line prefix and returns the logger.
func (s *StdLogger) WithPrefix(prefix string) *StdLogger {
	s.logger.SetPrefix(prefix)
	return s
}

func (s *StdLogger) Type() LoggerType {
	return s.kind
}

func (s *StdLogger) Printf(format string, args ...any) {
	s.logger.Printf(format, args...)
}

func (s *StdLogger) Println(message string) {
	s.logger.Println(message)
}

func (s *StdLogger) Close() error {
	return nil
}
