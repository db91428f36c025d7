package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FrenchMajesty/turbo-kit/utils/logger"
)

// Operation is a zero-argument fallible call.
type Operation[T any] func(ctx context.Context) (T, error)

var (
	// ErrRetriesExhausted is matched by the error returned when every attempt failed.
	ErrRetriesExhausted = errors.New("retry: attempts exhausted")
	// ErrInvalidConfig reports a Config that cannot drive the loop.
	ErrInvalidConfig = errors.New("retry: invalid configuration")
	// ErrInconsistent is the internal state where the loop ended without a
	// result or a final failure. It should never be observed.
	ErrInconsistent = errors.New("retry: internal inconsistency")
)

const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 1000 * time.Millisecond
)

// Config controls Execute.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Delay is waited between a failed attempt and the next one.
	Delay time.Duration

	// Name identifies the operation in log lines.
	Name string
	// Logger receives attempt lines when Verbose is set. Nil discards.
	Logger  logger.Logger
	Verbose bool
}

// DefaultConfig returns 3 attempts with a 1s delay.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
	}
}

// Validate reports whether the config can drive the retry loop.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: %w: max attempts must be at least 1, got %d", ErrInvalidConfig, ErrInconsistent, c.MaxAttempts)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative, got %v", ErrInvalidConfig, c.Delay)
	}
	return nil
}

// ExhaustedError is returned when the final attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: all %d attempts failed, last error: %v", e.Attempts, e.Err)
}

// Unwrap returns the error of the final attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRetriesExhausted) true.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

// Execute calls op until it succeeds or cfg.MaxAttempts attempts have failed.
// Attempts never overlap. A cancelled ctx is only observed while waiting
// between attempts.
func Execute[T any](ctx context.Context, cfg Config, op Operation[T]) (T, error) {
	var zero T
	if err := cfg.Validate(); err != nil {
		return zero, err
	}

	log := logger.OrNoop(cfg.Logger)
	name := cfg.Name
	if name == "" {
		name = "operation"
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if cfg.Verbose {
				log.Printf("retry %s: attempt %d/%d after %v delay", name, attempt, cfg.MaxAttempts, cfg.Delay)
			}
			if err := wait(ctx, cfg.Delay); err != nil {
				return zero, fmt.Errorf("retry %s: stopped before attempt %d: %w", name, attempt, errors.Join(err, lastErr))
			}
		}

		result, err := op(ctx)
		if err == nil {
			if attempt > 1 && cfg.Verbose {
				log.Printf("retry %s: succeeded on attempt %d/%d", name, attempt, cfg.MaxAttempts)
			}
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			if cfg.Verbose {
				log.Printf("retry %s: failed after %d attempts, last error: %v", name, cfg.MaxAttempts, err)
			}
			return zero, &ExhaustedError{Attempts: attempt, Err: err}
		}

		if cfg.Verbose {
			log.Printf("retry %s: attempt %d/%d failed: %v", name, attempt, cfg.MaxAttempts, err)
		}
	}

	return zero, ErrInconsistent
}

// Wrap returns op with the retry loop of Execute built in.
func Wrap[T any](cfg Config, op Operation[T]) Operation[T] {
	return func(ctx context.Context) (T, error) {
		return Execute(ctx, cfg, op)
	}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
