package contact

import (
	"log/slog"

	"github.com/ppsprecycling/website/pkg/cache"
	"github.com/ppsprecycling/website/pkg/logger"
	"github.com/ppsprecycling/website/pkg/ratelimiter"
	"github.com/ppsprecycling/website/pkg/relay"
)

// Registry hands out one Controller per visitor and keeps at most
// MaxVisitors of them. Evicted controllers are closed.
type Registry struct {
	cooldown *ratelimiter.Cooldown
	relay    relay.Relay
	secrets  Secrets
	opts     []Option
	log      *slog.Logger
	onSize   func(n int)

	controllers *cache.LRU[string, *Controller]
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithControllerOptions applies opts to every controller the registry creates.
func WithControllerOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.opts = append(r.opts, opts...)
	}
}

// WithSizeObserver is told the number of live controllers after each change.
func WithSizeObserver(fn func(n int)) RegistryOption {
	return func(r *Registry) {
		r.onSize = fn
	}
}

func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry creates a registry from cfg. Controllers get cfg's timings
// before any WithControllerOptions.
func NewRegistry(cfg Config, cooldown *ratelimiter.Cooldown, rl relay.Relay, opts ...RegistryOption) (*Registry, error) {
	if cooldown == nil || rl == nil || cfg.MaxVisitors <= 0 {
		return nil, ErrInvalidConfig
	}

	r := &Registry{
		cooldown: cooldown,
		relay:    rl,
		secrets:  cfg.Secrets(),
		opts: []Option{
			WithRevertDelay(cfg.SuccessDisplay),
			WithDeliveryTimeout(cfg.DeliveryTimeout),
		},
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.controllers = cache.NewLRU(cfg.MaxVisitors,
		cache.WithEvictCallback(func(visitorID string, c *Controller) {
			if c != nil {
				c.Close()
			}
			r.log.Debug("contact controller released", logger.VisitorID(visitorID))
			r.reportSize()
		}),
	)

	if !r.secrets.Complete() {
		r.log.Warn("contact relay credentials missing, submissions will fail",
			slog.Any("missing", r.secrets.Missing()),
		)
	}

	return r, nil
}

// Get returns the controller of visitorID, creating it on first use.
func (r *Registry) Get(visitorID string) (*Controller, error) {
	if visitorID == "" {
		return nil, ErrEmptyVisitorID
	}

	var createErr error
	c, existed := r.controllers.GetOrAdd(visitorID, func() *Controller {
		c, err := New(visitorID, r.cooldown, r.relay, r.secrets, r.opts...)
		if err != nil {
			createErr = err
		}
		return c
	})
	if createErr != nil {
		r.controllers.Remove(visitorID)
		return nil, createErr
	}
	if !existed {
		r.reportSize()
	}
	return c, nil
}

// Peek returns the controller of visitorID without creating one.
func (r *Registry) Peek(visitorID string) (*Controller, bool) {
	return r.controllers.Get(visitorID)
}

// Release closes and forgets the controller of visitorID.
func (r *Registry) Release(visitorID string) {
	r.controllers.Remove(visitorID)
}

func (r *Registry) Len() int {
	return r.controllers.Len()
}

// Close tears down every controller.
func (r *Registry) Close() {
	r.controllers.Clear()
}

func (r *Registry) reportSize() {
	if r.onSize != nil {
		r.onSize(r.controllers.Len())
	}
}
