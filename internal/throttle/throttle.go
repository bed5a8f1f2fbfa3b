// Package throttle implements the fixed pause taken before retrying a
// request the remote API rejected for rate limiting.
package throttle

import (
	"context"
	"time"
)

// DefaultDelay is the pause before each retry of a throttled request.
const DefaultDelay = 100 * time.Millisecond

// Controller blocks its caller for a fixed delay. There is no backoff,
// no jitter and no limit on how often it is used.
type Controller struct {
	Delay time.Duration

	// after is swapped in tests to avoid real sleeps.
	after func(time.Duration) <-chan time.Time
}

// New returns a Controller with the given delay. A negative delay is treated as zero.
func New(delay time.Duration) *Controller {
	if delay < 0 {
		delay = 0
	}
	return &Controller{Delay: delay, after: time.After}
}

// Wait blocks for the configured delay or until ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	after := c.after
	if after == nil {
		after = time.After
	}
	select {
	case <-after(c.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
