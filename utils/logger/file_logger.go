package logger

import (
	"log"
	"os"
	"sync"
)

// FileLogger appends log lines to a file opened with O_APPEND, so writes
// from several processes interleave by line rather than corrupting each other.
type FileLogger struct {
	logger *log.Logger
	file   *os.File
	once   sync.Once
	err    error
}

var _ Logger = (*FileLogger)(nil)

// NewFileLogger opens (or creates) the file at path for appending.
func NewFileLogger(path string) (*FileLogger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	return &FileLogger{
		logger: log.New(file, "", log.LstdFlags),
		file:   file,
	}, nil
}

// WithPrefix sets the line prefix and returns the logger.
func (f *FileLogger) WithPrefix(prefix string) *FileLogger {
	f.logger.SetPrefix(prefix)
	return f
}

func (f *FileLogger) Type() LoggerType {
	return LoggerTypeFile
}

func (f *FileLogger) Printf(format string, args ...any) {
	f.logger.Printf(format, args...)
}

func (f *FileLogger) Println(message string) {
	f.logger.Println(message)
}

// Close closes the underlying file. Calling it more than once returns the
// result of the first call.
func (f *FileLogger) Close() error {
	f.once.Do(func() {
		f.err = f.file.Close()
	})
	return f.err
}
