package decorate

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FrenchMajesty/turbo-kit/utils/logger"
	"github.com/FrenchMajesty/turbo-kit/utils/memo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(ctx context.Context, args ...any) (int, error) {
	sum := 0
	for _, a := range args {
		sum += a.(int)
	}
	return sum, nil
}

func TestTimed(t *testing.T) {
	var gotName string
	var gotElapsed time.Duration
	var gotErr error
	sink := func(name string, elapsed time.Duration, err error) {
		gotName, gotElapsed, gotErr = name, elapsed, err
	}

	slow := func(ctx context.Context, args ...any) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return "done", nil
	}

	result, err := Timed("slow", sink, slow)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, "slow", gotName)
	assert.GreaterOrEqual(t, gotElapsed, 10*time.Millisecond)
	assert.NoError(t, gotErr)
}

func TestTimed_ReportsError(t *testing.T) {
	boom := errors.New("boom")
	var gotErr error
	failing := func(ctx context.Context, args ...any) (int, error) { return 0, boom }

	_, err := Timed("failing", func(_ string, _ time.Duration, err error) { gotErr = err }, failing)(context.Background())

	assert.Same(t, boom, err)
	assert.Same(t, boom, gotErr)
}

func TestTimed_NilSinkReturnsOp(t *testing.T) {
	wrapped := Timed[int]("add", nil, add)
	v, err := wrapped(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestLogTiming(t *testing.T) {
	var buf bytes.Buffer
	sink := LogTiming(logger.NewWriterLogger(&buf))

	sink("fetch", 5*time.Millisecond, nil)
	sink("fetch", time.Millisecond, errors.New("nope"))

	assert.Contains(t, buf.String(), "fetch took 5ms")
	assert.Contains(t, buf.String(), "(failed: nope)")
}

func TestLogged(t *testing.T) {
	var buf bytes.Buffer
	cfg := LogConfig{Enabled: true, Name: "add", Logger: logger.NewWriterLogger(&buf), LogResults: true}

	v, err := Logged(cfg, add)(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	out := buf.String()
	assert.Contains(t, out, "calling with (2, 3)")
	assert.Contains(t, out, "returned 5 after")
}

func TestLogged_Failure(t *testing.T) {
	var buf bytes.Buffer
	cfg := LogConfig{Enabled: true, Name: "div", Logger: logger.NewWriterLogger(&buf)}
	failing := func(ctx context.Context, args ...any) (int, error) {
		return 0, errors.New("division by zero")
	}

	_, err := Logged(cfg, failing)(context.Background(), 1, 0)

	require.EqualError(t, err, "division by zero")
	assert.Contains(t, buf.String(), "failed after")
	assert.Contains(t, buf.String(), "division by zero")
}

func TestLogged_Disabled(t *testing.T) {
	var buf bytes.Buffer
	cfg := LogConfig{Enabled: false, Logger: logger.NewWriterLogger(&buf)}

	v, err := Logged(cfg, add)(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Empty(t, buf.String())
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Wrapper[int] {
		return func(op Func[int]) Func[int] {
			return func(ctx context.Context, args ...any) (int, error) {
				order = append(order, name)
				return op(ctx, args...)
			}
		}
	}

	_, err := Chain(add, tag("outer"), tag("inner"))(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestChain_WithMemo(t *testing.T) {
	calls := 0
	counted := func(ctx context.Context, args ...any) (int, error) {
		calls++
		return add(ctx, args...)
	}

	var buf bytes.Buffer
	cached, err := memo.Memoize(counted, memo.Options{Name: "add", TTL: time.Minute})
	require.NoError(t, err)

	op := Chain(cached,
		LoggedBy[int](LogConfig{Enabled: true, Name: "add", Logger: logger.NewWriterLogger(&buf)}),
		TimedBy[int]("add", LogTiming(logger.NewWriterLogger(&buf))),
	)

	for i := 0; i < 3; i++ {
		v, err := op(context.Background(), 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("add took")))
}
