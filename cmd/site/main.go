package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/internal/content"
	"github.com/ppsprecycling/website/internal/site"
	"github.com/ppsprecycling/website/internal/views"
	"github.com/ppsprecycling/website/pkg/clientip"
	"github.com/ppsprecycling/website/pkg/config"
	"github.com/ppsprecycling/website/pkg/cookie"
	"github.com/ppsprecycling/website/pkg/environment"
	"github.com/ppsprecycling/website/pkg/httpserver"
	"github.com/ppsprecycling/website/pkg/logger"
	"github.com/ppsprecycling/website/pkg/metrics"
	"github.com/ppsprecycling/website/pkg/ratelimiter"
	"github.com/ppsprecycling/website/pkg/redis"
	"github.com/ppsprecycling/website/pkg/relay"
	"github.com/ppsprecycling/website/pkg/requestid"
	"github.com/ppsprecycling/website/pkg/throttle"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("site stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env := environment.Parse(cfg.Env)

	logOpts, logFile := logger.FromConfig(cfg.Log, string(env), cfg.Name)
	defer logFile.Close()
	log := logger.New(append(logOpts, logger.WithContextExtractors(requestid.LoggerExtractor()))...)
	logger.SetAsDefault(log)

	m := metrics.New()
	ready := map[string]httpserver.Check{}
	var stopHooks []httpserver.Option

	store, err := cooldownStore(ctx, cfg, log, ready, &stopHooks)
	if err != nil {
		return err
	}
	cooldown, err := ratelimiter.NewCooldown(store, cfg.Contact.Cooldown)
	if err != nil {
		return err
	}

	rl, err := relay.New(cfg.Relay, views.EmailRenderer())
	if err != nil {
		return err
	}
	rl = relay.Instrument(rl, cfg.Relay.Driver, m.ObserveRelay)

	registry, err := contact.NewRegistry(cfg.Contact, cooldown, rl,
		contact.WithRegistryLogger(log),
		contact.WithSizeObserver(func(n int) { m.ActiveVisitors.Set(float64(n)) }),
		contact.WithControllerOptions(
			contact.WithLogger(log),
			contact.WithOutcomeHook(m.RecordSubmission),
		),
	)
	if err != nil {
		return err
	}

	cookies, err := cookieManager(cfg.Cookie, env, log)
	if err != nil {
		return err
	}

	limiter := throttle.New(cfg.Throttle)

	svc, err := site.New(site.Options{
		Content:     content.MustDefault(),
		Registry:    registry,
		Cookies:     cookies,
		Logger:      log,
		Environment: env,
		ClientIP:    clientip.NewResolver(cfg.ClientIPHeaders...),
		Metrics:     m,
		Throttle:    limiter,
		Ready:       ready,
	})
	if err != nil {
		return err
	}

	// Controllers go first so no late delivery records into a closed store.
	srv := httpserver.NewFromConfig(cfg.HTTP, append([]httpserver.Option{
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(context.Context) error {
			registry.Close()
			limiter.Close()
			return nil
		}),
	}, stopHooks...)...)

	log.InfoContext(ctx, "starting site",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("relay", cfg.Relay.Driver),
		slog.Bool("redis", cfg.Redis.Enabled()),
	)
	return srv.Run(ctx, svc.Handle())
}

// cooldownStore uses Redis when configured so the cooldown survives restarts
// and is shared between instances, and process memory otherwise.
func cooldownStore(ctx context.Context, cfg appConfig, log *slog.Logger, ready map[string]httpserver.Check, hooks *[]httpserver.Option) (ratelimiter.Store, error) {
	if !cfg.Redis.Enabled() {
		mem := ratelimiter.NewMemoryStore()
		*hooks = append(*hooks, httpserver.WithStopHook(func(context.Context) error {
			mem.Close()
			return nil
		}))
		return mem, nil
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	ready["redis"] = httpserver.Check(redis.Healthcheck(client))
	*hooks = append(*hooks, httpserver.WithStopHook(func(context.Context) error {
		return client.Close()
	}))
	log.InfoContext(ctx, "cooldown stored in redis", slog.String("prefix", cfg.Redis.KeyPrefix))
	return ratelimiter.NewRedisStore(client, cfg.Redis.KeyPrefix+":cooldown"), nil
}

// cookieManager signs the visitor cookie. In development a missing secret
// is replaced by a random one, which forgets every visitor on restart.
func cookieManager(cfg cookie.Config, env environment.Environment, log *slog.Logger) (*cookie.Manager, error) {
	m, err := cookie.NewFromConfig(cfg)
	if err == nil || !errors.Is(err, cookie.ErrNoSecret) || !env.IsDevelopment() {
		return m, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate cookie secret: %w", err)
	}
	log.Warn("COOKIE_SECRETS not set, using an ephemeral secret")
	cfg.Secrets = hex.EncodeToString(buf)
	return cookie.NewFromConfig(cfg)
}
