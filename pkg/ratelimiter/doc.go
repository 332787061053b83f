// Package ratelimiter implements a per-key cooldown: after an event is
// recorded for a key, further events are refused until the window elapses.
//
// Checking and recording are separate so callers can count only the events
// that matter (for example, only successful deliveries):
//
//	cd, _ := ratelimiter.NewCooldown(ratelimiter.NewMemoryStore(), 30*time.Second)
//
//	res, err := cd.Check(ctx, visitorID)
//	if err != nil { ... }
//	if !res.Allowed() {
//		wait := res.RetryAfter()
//		...
//	}
//	// ... do the work ...
//	cd.Record(ctx, visitorID)
//
// Two stores are provided: MemoryStore for a single process and RedisStore
// for deployments with several instances.
package ratelimiter
