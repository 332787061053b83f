package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Cooldown allows one event per window per key. The window starts at the last
// recorded event, so callers decide which events count by calling Record.
type Cooldown struct {
	store  Store
	window time.Duration
	now    func() time.Time
}

// Option configures a Cooldown.
type Option func(*Cooldown)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cooldown) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCooldown creates a cooldown limiter backed by store.
func NewCooldown(store Store, window time.Duration, opts ...Option) (*Cooldown, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %v", ErrInvalidWindow, window)
	}

	c := &Cooldown{
		store:  store,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Window returns the configured cooldown length.
func (c *Cooldown) Window() time.Duration {
	return c.window
}

// Check reports whether an event for key is allowed now. It does not record anything.
func (c *Cooldown) Check(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	last, err := c.store.Last(ctx, key)
	if err != nil {
		return nil, err
	}

	return &Result{
		Window:  c.window,
		LastAt:  last,
		ResetAt: last.Add(c.window),
		CheckAt: c.now(),
	}, nil
}

// Record marks now as the last event time for key and returns that instant.
func (c *Cooldown) Record(ctx context.Context, key string) (time.Time, error) {
	at := c.now()
	if err := c.RecordAt(ctx, key, at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// RecordAt marks at as the last event time for key. Use it when the event
// happened before it could be confirmed, so the window starts at the event.
func (c *Cooldown) RecordAt(ctx context.Context, key string, at time.Time) error {
	if key == "" {
		return ErrEmptyKey
	}
	return c.store.Mark(ctx, key, at, c.window)
}

// Reset forgets the last event for key.
func (c *Cooldown) Reset(ctx context.Context, key string) error {
	return c.store.Reset(ctx, key)
}
