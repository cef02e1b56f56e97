// Package retry provides a small bounded retry helper with linear backoff.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy bounds a retry loop. Attempt n (1-based) that fails waits n*Backoff before the next one.
type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// Cleanup is the policy used for temp-file removal.
var Cleanup = Policy{Attempts: 3, Backoff: 100 * time.Millisecond}

// Do calls fn until it succeeds, the attempts are exhausted, or ctx is done.
// It returns the last error from fn, or ctx.Err() when cancelled while waiting.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		t := time.NewTimer(time.Duration(i) * p.Backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.Join(err, ctx.Err())
		case <-t.C:
		}
	}
	return err
}

// Do runs fn under the given attempt count and linear backoff.
func Do(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Backoff: backoff}.Do(ctx, fn)
}
