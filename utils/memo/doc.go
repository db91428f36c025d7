// Package memo memoizes operations with a time-to-live.
//
// A Cache wraps an operation and keys every call by the operation's name and
// a canonical encoding of its arguments. A stored result is returned without
// calling the operation until its TTL elapses; after that the entry is
// dropped on the next read and the operation runs again. There is no
// capacity bound and no background sweep, so a Cache grows with the number
// of distinct argument combinations it has seen.
//
//	square, err := memo.Memoize1(func(ctx context.Context, n int) (int, error) {
//	    return n * n, nil
//	}, memo.Options{Name: "square", TTL: time.Minute})
//
// Arguments are keyed by type as well as value, so f(1) and f(1.0) are
// separate entries. Structs with unexported fields cannot be keyed and fail
// with ErrUnkeyableArgs.
//
// Failed calls are never stored. Concurrent misses on the same key each call
// the operation unless Options.SingleFlight is set.
package memo
