package parallel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/FrenchMajesty/turbo-kit/utils/retry"
)

// Task represents a function to be executed in parallel
type Task func(ctx context.Context) (any, error)

// Result holds the result and error from a parallel task execution
type Result struct {
	Value any
	Error error
}

// Results holds the map of results from parallel execution
type Results map[string]Result

// Err joins the errors of every failed task, in key order.
func (r Results) Err() error {
	keys := make([]string, 0, len(r))
	for k, res := range r {
		if res.Error != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	errs := make([]error, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, fmt.Errorf("%s: %w", k, r[k].Error))
	}
	return errors.Join(errs...)
}

// Builder collects keyed tasks and runs them concurrently.
type Builder struct {
	tasks map[string]Task
}

// NewBuilder creates a new parallel builder
func NewBuilder() *Builder {
	return &Builder{
		tasks: make(map[string]Task),
	}
}

// Add adds a keyed task to be executed in parallel. A later Add with the
// same key replaces the earlier task.
func (b *Builder) Add(key string, task Task) *Builder {
	b.tasks[key] = task
	return b
}

// AddWithRetry adds a task that is retried on its own per cfg. Branches
// retry independently; one branch waiting never delays another.
func (b *Builder) AddWithRetry(key string, cfg retry.Config, task Task) *Builder {
	if cfg.Name == "" {
		cfg.Name = key
	}
	return b.Add(key, Task(retry.Wrap(cfg, retry.Operation[any](task))))
}

// Run executes all tasks in parallel and returns results keyed by their
// original keys. It waits for every task.
func (b *Builder) Run(ctx context.Context) Results {
	if len(b.tasks) == 0 {
		return Results{}
	}

	results := make(Results, len(b.tasks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for key, task := range b.tasks {
		wg.Add(1)
		go func(k string, t Task) {
			defer wg.Done()
			value, err := t(ctx)

			mu.Lock()
			results[k] = Result{Value: value, Error: err}
			mu.Unlock()
		}(key, task)
	}

	wg.Wait()
	return results
}

// Get retrieves a typed result using the function signature to infer the return type
func Get[T any](results Results, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	return As[T](results, key)
}

// As retrieves the result stored under key as a T.
func As[T any](results Results, key string) (T, error) {
	var zero T

	result, exists := results[key]
	if !exists {
		return zero, fmt.Errorf("no result found for key: %s", key)
	}
	if result.Error != nil {
		return zero, result.Error
	}

	value, ok := result.Value.(T)
	if !ok {
		return zero, fmt.Errorf("type assertion failed for key %s: expected %T, got %T", key, zero, result.Value)
	}

	return value, nil
}
