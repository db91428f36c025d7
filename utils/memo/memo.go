package memo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FrenchMajesty/turbo-kit/utils/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Func is the shape of a memoizable operation.
type Func[T any] = func(ctx context.Context, args ...any) (T, error)

// ErrInvalidConfig reports Options a Cache cannot be built from.
var ErrInvalidConfig = errors.New("memo: invalid configuration")

// Entry is a stored result and the instant it stops being served.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Options configures a Cache.
type Options struct {
	// Name prefixes every key and labels log lines. Entries are never shared
	// between Caches, since each owns its map, so Name only matters for
	// reading logs. Empty gets a random uuid.
	Name string
	// TTL is how long a stored result is served. Zero makes every call a miss.
	TTL time.Duration

	// SingleFlight coalesces concurrent misses on the same key into one call.
	// That call runs with the ctx of the caller that started it: if that ctx
	// is cancelled, every caller waiting on the key gets the cancellation
	// error, and nothing is stored.
	SingleFlight bool

	Logger  logger.Logger
	Verbose bool

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Stats counts lookups since the Cache was created.
type Stats struct {
	Hits    int64
	Misses  int64
	Expired int64
}

// Cache memoizes one operation. It is safe for concurrent use; the mutex
// protects the map only, so two concurrent misses may both run the operation.
type Cache[V any] struct {
	op      Func[V]
	name    string
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger
	verbose bool
	group   *singleflight.Group

	mu      sync.Mutex
	entries map[string]Entry[V]

	hits    atomic.Int64
	misses  atomic.Int64
	expired atomic.Int64
}

// New wraps op in a Cache.
func New[V any](op Func[V], opts Options) (*Cache[V], error) {
	if op == nil {
		return nil, fmt.Errorf("%w: nil operation", ErrInvalidConfig)
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("%w: ttl must not be negative, got %v", ErrInvalidConfig, opts.TTL)
	}

	c := &Cache[V]{
		op:      op,
		name:    opts.Name,
		ttl:     opts.TTL,
		now:     opts.Clock,
		log:     logger.OrNoop(opts.Logger),
		verbose: opts.Verbose,
		entries: make(map[string]Entry[V]),
	}
	if c.name == "" {
		c.name = uuid.NewString()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.SingleFlight {
		c.group = &singleflight.Group{}
	}

	return c, nil
}

// Memoize is New returning the wrapped function directly.
func Memoize[V any](op Func[V], opts Options) (Func[V], error) {
	c, err := New(op, opts)
	if err != nil {
		return nil, err
	}
	return c.Call, nil
}

// Memoize1 memoizes a typed single-argument function.
func Memoize1[A, V any](fn func(ctx context.Context, arg A) (V, error), opts Options) (func(ctx context.Context, arg A) (V, error), error) {
	c, err := New(func(ctx context.Context, args ...any) (V, error) {
		arg, _ := args[0].(A)
		return fn(ctx, arg)
	}, opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, arg A) (V, error) {
		return c.Call(ctx, arg)
	}, nil
}

// Name returns the label used in keys and log lines.
func (c *Cache[V]) Name() string {
	return c.name
}

// Func returns Call as a plain function value.
func (c *Cache[V]) Func() Func[V] {
	return c.Call
}

// Call returns the stored result for args while it is fresh, and otherwise
// runs the operation and stores what it returns. Errors from the operation
// are returned unchanged and leave the Cache untouched.
func (c *Cache[V]) Call(ctx context.Context, args ...any) (V, error) {
	var zero V

	key, err := Key(c.name, args...)
	if err != nil {
		return zero, err
	}

	if value, ok := c.fresh(key); ok {
		return value, nil
	}

	if c.group == nil {
		return c.compute(ctx, key, args)
	}

	shared, err, _ := c.group.Do(key, func() (any, error) {
		return c.compute(ctx, key, args)
	})
	if err != nil {
		return zero, err
	}
	value, _ := shared.(V)
	return value, nil
}

// Lookup returns the stored entry for args, fresh or not. It neither calls
// the operation nor removes expired entries.
func (c *Cache[V]) Lookup(args ...any) (Entry[V], bool) {
	key, err := Key(c.name, args...)
	if err != nil {
		return Entry[V]{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit, miss and expiry counts.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Expired: c.expired.Load(),
	}
}

// fresh returns the stored value for key if it has not expired. An expired
// entry is deleted.
func (c *Cache[V]) fresh(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		if c.verbose {
			c.log.Printf("memo %s: miss", c.name)
		}
		var zero V
		return zero, false
	}

	if c.now().Before(entry.ExpiresAt) {
		c.hits.Add(1)
		if c.verbose {
			c.log.Printf("memo %s: hit, expires in %v", c.name, entry.ExpiresAt.Sub(c.now()))
		}
		return entry.Value, true
	}

	delete(c.entries, key)
	c.misses.Add(1)
	c.expired.Add(1)
	if c.verbose {
		c.log.Printf("memo %s: expired %v ago", c.name, c.now().Sub(entry.ExpiresAt))
	}
	var zero V
	return zero, false
}

func (c *Cache[V]) compute(ctx context.Context, key string, args []any) (V, error) {
	value, err := c.op(ctx, args...)
	if err != nil {
		if c.verbose {
			c.log.Printf("memo %s: operation failed, nothing stored: %v", c.name, err)
		}
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = Entry[V]{Value: value, ExpiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return value, nil
}
