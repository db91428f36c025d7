// Package decorate wraps operations with timing and logging.
//
// Each wrapper takes an operation and returns a new one with the same shape,
// so wrappers stack with each other and with memo and retry:
//
//	op = decorate.Chain(op,
//	    decorate.LoggedBy[int](decorate.LogConfig{Enabled: true, Name: "price", Logger: l}),
//	    decorate.TimedBy[int]("price", decorate.LogTiming(l)),
//	)
package decorate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FrenchMajesty/turbo-kit/utils/logger"
	"github.com/google/uuid"
)

// Func is the shape every wrapper accepts and returns. It is the same type
// as memo.Func.
type Func[T any] = func(ctx context.Context, args ...any) (T, error)

// Wrapper turns one operation into another.
type Wrapper[T any] func(Func[T]) Func[T]

// TimingSink receives the duration of every call.
type TimingSink func(name string, elapsed time.Duration, err error)

// LogTiming returns a sink that writes one line per call to l.
func LogTiming(l logger.Logger) TimingSink {
	l = logger.OrNoop(l)
	return func(name string, elapsed time.Duration, err error) {
		if err != nil {
			l.Printf("%s took %v (failed: %v)", name, elapsed, err)
			return
		}
		l.Printf("%s took %v", name, elapsed)
	}
}

// Timed reports the duration of each call of op to sink.
func Timed[T any](name string, sink TimingSink, op Func[T]) Func[T] {
	if sink == nil {
		return op
	}
	return func(ctx context.Context, args ...any) (T, error) {
		start := time.Now()
		result, err := op(ctx, args...)
		sink(name, time.Since(start), err)
		return result, err
	}
}

// TimedBy is Timed as a Wrapper.
func TimedBy[T any](name string, sink TimingSink) Wrapper[T] {
	return func(op Func[T]) Func[T] {
		return Timed(name, sink, op)
	}
}

// LogConfig configures Logged. Logging is off unless Enabled is set.
type LogConfig struct {
	Enabled bool
	Name    string
	Logger  logger.Logger
	// LogResults includes returned values in the completion line.
	LogResults bool
}

// Logged logs the arguments, duration and outcome of every call of op.
// A disabled config returns op unchanged.
func Logged[T any](cfg LogConfig, op Func[T]) Func[T] {
	if !cfg.Enabled {
		return op
	}

	l := logger.OrNoop(cfg.Logger)
	name := cfg.Name
	if name == "" {
		name = "call"
	}

	return func(ctx context.Context, args ...any) (T, error) {
		callID := uuid.New().String()[:6]
		l.Printf("%s %s: calling with (%s)", name, callID, formatArgs(args))

		start := time.Now()
		result, err := op(ctx, args...)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			l.Printf("%s %s: failed after %v: %v", name, callID, elapsed, err)
		case cfg.LogResults:
			l.Printf("%s %s: returned %v after %v", name, callID, result, elapsed)
		default:
			l.Printf("%s %s: completed in %v", name, callID, elapsed)
		}
		return result, err
	}
}

// LoggedBy is Logged as a Wrapper.
func LoggedBy[T any](cfg LogConfig) Wrapper[T] {
	return func(op Func[T]) Func[T] {
		return Logged(cfg, op)
	}
}

// Chain applies wrappers to op; the first wrapper ends up outermost.
func Chain[T any](op Func[T], wrappers ...Wrapper[T]) Func[T] {
	for i := len(wrappers) - 1; i >= 0; i-- {
		op = wrappers[i](op)
	}
	return op
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprintf("%#v", arg)
	}
	return strings.Join(parts, ", ")
}
