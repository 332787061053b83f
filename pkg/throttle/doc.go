// Package throttle guards endpoints against bursts from a single client
// using golang.org/x/time/rate token buckets kept per key (by default the
// client IP).
//
//	l := throttle.New(throttle.Config{PerMinute: 20, Burst: 5, IdleTTL: 10 * time.Minute})
//	defer l.Close()
//	r.With(throttle.Middleware(l, throttle.ByIP, nil)).Post("/contact", submit)
package throttle
