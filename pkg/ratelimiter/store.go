package ratelimiter

import (
	"context"
	"time"
)

// Store persists the time of the last recorded event per key.
type Store interface {
	// Last returns the last recorded time for key, or the zero time when
	// nothing was recorded (or the record expired).
	Last(ctx context.Context, key string) (time.Time, error)

	// Mark records at as the last event time for key. The record may be
	// dropped once ttl has passed.
	Mark(ctx context.Context, key string, at time.Time, ttl time.Duration) error

	// Reset clears the state for key.
	Reset(ctx context.Context, key string) error
}
