package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FrenchMajesty/turbo-kit/utils/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelBuilder_BasicUsage(t *testing.T) {
	ctx := context.Background()

	stringFetcher := func(ctx context.Context) (string, error) {
		return "hello", nil
	}
	intFetcher := func(ctx context.Context) (int, error) {
		return 42, nil
	}

	results := NewBuilder().
		Add("string", func(ctx context.Context) (any, error) { return stringFetcher(ctx) }).
		Add("int", func(ctx context.Context) (any, error) { return intFetcher(ctx) }).
		Run(ctx)

	stringResult, err := Get(results, "string", stringFetcher)
	assert.NoError(t, err)
	assert.Equal(t, "hello", stringResult)

	intResult, err := As[int](results, "int")
	assert.NoError(t, err)
	assert.Equal(t, 42, intResult)
	assert.NoError(t, results.Err())
}

func TestParallelBuilder_WithErrors(t *testing.T) {
	results := NewBuilder().
		Add("success", func(ctx context.Context) (any, error) { return "success", nil }).
		Add("b-error", func(ctx context.Context) (any, error) { return nil, errors.New("second error") }).
		Add("a-error", func(ctx context.Context) (any, error) { return nil, errors.New("first error") }).
		Run(context.Background())

	successResult, err := As[string](results, "success")
	assert.NoError(t, err)
	assert.Equal(t, "success", successResult)

	errorResult, err := As[string](results, "a-error")
	assert.Error(t, err)
	assert.Equal(t, "", errorResult)

	joined := results.Err()
	require.Error(t, joined)
	assert.Equal(t, "a-error: first error\nb-error: second error", joined.Error())
}

func TestParallelBuilder_Concurrency(t *testing.T) {
	startTime := time.Now()

	slow := func(value string) Task {
		return func(ctx context.Context) (any, error) {
			time.Sleep(100 * time.Millisecond)
			return value, nil
		}
	}

	results := NewBuilder().
		Add("slow1", slow("slow1")).
		Add("slow2", slow("slow2")).
		Run(context.Background())

	// Roughly 100ms in parallel, not 200ms sequentially.
	assert.Less(t, time.Since(startTime), 150*time.Millisecond)

	result1, err := As[string](results, "slow1")
	assert.NoError(t, err)
	assert.Equal(t, "slow1", result1)

	result2, err := As[string](results, "slow2")
	assert.NoError(t, err)
	assert.Equal(t, "slow2", result2)
}

func TestParallelBuilder_AddWithRetry(t *testing.T) {
	var flakyCalls, steadyCalls atomic.Int32

	results := NewBuilder().
		AddWithRetry("flaky", retry.Config{MaxAttempts: 3, Delay: 5 * time.Millisecond}, func(ctx context.Context) (any, error) {
			if flakyCalls.Add(1) < 3 {
				return nil, errors.New("not yet")
			}
			return "recovered", nil
		}).
		AddWithRetry("broken", retry.Config{MaxAttempts: 2}, func(ctx context.Context) (any, error) {
			steadyCalls.Add(1)
			return nil, errors.New("always")
		}).
		Run(context.Background())

	flaky, err := As[string](results, "flaky")
	require.NoError(t, err)
	assert.Equal(t, "recovered", flaky)
	assert.Equal(t, int32(3), flakyCalls.Load())

	_, err = As[string](results, "broken")
	assert.ErrorIs(t, err, retry.ErrRetriesExhausted)
	assert.Equal(t, int32(2), steadyCalls.Load())
}

func TestParallelBuilder_AddWithRetryInvalidConfig(t *testing.T) {
	results := NewBuilder().
		AddWithRetry("never", retry.Config{MaxAttempts: 0}, func(ctx context.Context) (any, error) {
			return "unreachable", nil
		}).
		Run(context.Background())

	_, err := As[string](results, "never")
	assert.ErrorIs(t, err, retry.ErrInvalidConfig)
}

func TestGet_KeyNotFound(t *testing.T) {
	fetcher := func(ctx context.Context) (string, error) {
		return "test", nil
	}

	result, err := Get(Results{}, "nonexistent", fetcher)
	assert.Error(t, err)
	assert.Equal(t, "", result)
	assert.Contains(t, err.Error(), "no result found for key: nonexistent")
}

func TestGet_TypeAssertionFailure(t *testing.T) {
	results := Results{
		"key": Result{Value: 42},
	}

	result, err := As[string](results, "key")
	assert.Error(t, err)
	assert.Equal(t, "", result)
	assert.Contains(t, err.Error(), "type assertion failed")
}

func TestParallelBuilder_EmptyBuilder(t *testing.T) {
	results := NewBuilder().Run(context.Background())

	assert.Equal(t, 0, len(results))
	assert.NoError(t, results.Err())
}
