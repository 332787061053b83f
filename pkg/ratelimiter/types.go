package ratelimiter

import "time"

// Result describes a cooldown check at a given instant.
type Result struct {
	Window  time.Duration // Cooldown length
	LastAt  time.Time     // Last recorded event, zero when none
	ResetAt time.Time     // When the next event is allowed
	CheckAt time.Time     // Instant the check was made
}

// Allowed reports whether the cooldown has elapsed.
func (r *Result) Allowed() bool {
	return !r.CheckAt.Before(r.ResetAt)
}

// RetryAfter returns how long to wait before the next event is allowed.
// Returns 0 when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return r.ResetAt.Sub(r.CheckAt)
}
