package throttle

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config controls the per-key token bucket.
type Config struct {
	PerMinute float64       `env:"THROTTLE_PER_MINUTE" envDefault:"20"`
	Burst     int           `env:"THROTTLE_BURST" envDefault:"5"`
	IdleTTL   time.Duration `env:"THROTTLE_IDLE_TTL" envDefault:"10m"`
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key and forgets keys idle for longer
// than the configured TTL.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// New creates a Limiter and starts its cleanup loop. Call Close to stop it.
func New(cfg Config) *Limiter {
	l := &Limiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(cfg.PerMinute / 60),
		burst:   max(cfg.Burst, 1),
		ttl:     cfg.IdleTTL,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if l.ttl > 0 {
		go l.cleanup()
	}
	return l
}

// Reserve takes a token for key. When none is available it returns false and
// the time until the next token.
func (l *Limiter) Reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Allow is Reserve without the delay.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.Reserve(key)
	return ok
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.purge()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) purge() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.ttl)
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// Close stops the cleanup loop. Safe to call multiple times.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.stop) })
}
