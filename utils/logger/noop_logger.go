package logger

// NoopLogger discards all log messages. It is what every component falls
// back to when no logger is configured.
type NoopLogger struct{}

var _ Logger = NoopLogger{}

// NewNoopLogger creates a new logger that discards all output
func NewNoopLogger() NoopLogger {
	return NoopLogger{}
}

func (NoopLogger) Type() LoggerType { return LoggerTypeNoop }

func (NoopLogger) Printf(string, ...any) {}

func (NoopLogger) Println(string) {}

func (NoopLogger) Close() error { return nil }
