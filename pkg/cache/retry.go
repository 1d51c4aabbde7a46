package cache

import (
	"context"
	"time"
)

// Backoff is a retry policy for connecting to a remote cache.
type Backoff struct {
	// Attempts is the total number of tries; values below 1 mean one try.
	Attempts int

	// Delay is the wait before the second try. It doubles after every
	// further failure.
	Delay time.Duration
}

// DefaultBackoff tries three times, starting at 100ms.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds, fails with an error not marked
// [Retryable], or the attempts run out. The last error is returned; a
// cancelled ctx during a wait returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
