package contact

import (
	"log/slog"
	"time"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for attempt timestamps.
// The cooldown keeps its own clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRevertDelay sets how long the success panel stays before the form returns.
func WithRevertDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.revertDelay = d
		}
	}
}

// WithDeliveryTimeout bounds a single relay call.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.deliveryTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithOutcomeHook is called once per submit with "delivered", "in_flight"
// or the Kind of the failure.
func WithOutcomeHook(fn func(outcome string)) Option {
	return func(c *Controller) {
		c.onOutcome = fn
	}
}
