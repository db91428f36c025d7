// Package retry runs a fallible operation up to a fixed number of attempts,
// waiting a fixed delay between failed attempts.
//
// The package supports:
//   - Bounded, strictly sequential attempts (default 3)
//   - A fixed delay between a failure and the next attempt (default 1s)
//   - Context-aware waiting: cancellation during the delay stops the loop
//   - Optional verbose logging of retry attempts through utils/logger
//
// Basic Usage:
//
//	ctx := context.Background()
//	cfg := retry.DefaultConfig()
//	cfg.Name = "fetch-profile"
//
//	profile, err := retry.Execute(ctx, cfg, func(ctx context.Context) (*Profile, error) {
//	    return client.FetchProfile(ctx, id)
//	})
//
// Decorator form:
//
//	fetch := retry.Wrap(cfg, func(ctx context.Context) (*Profile, error) {
//	    return client.FetchProfile(ctx, id)
//	})
//	profile, err := fetch(ctx)
//
// Configuration:
//
// The Config struct controls the loop:
//   - MaxAttempts: total number of attempts, must be at least 1 (default: 3)
//   - Delay: wait between a failed attempt and the next one (default: 1s)
//
// No delay is incurred after a success or after the final attempt.
//
// Errors:
//
// Every error returned by the operation counts as a failed attempt. When the
// final attempt fails, Execute returns an *ExhaustedError that wraps the last
// error; errors.Is(err, ErrRetriesExhausted) reports true and errors.Is also
// matches the underlying error. A Config with MaxAttempts below 1 or a
// negative Delay is rejected before the operation is called.
package retry
