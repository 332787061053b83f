package site

import (
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppsprecycling/website/handler"
	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/internal/content"
	"github.com/ppsprecycling/website/internal/views"
	"github.com/ppsprecycling/website/pkg/binder"
	"github.com/ppsprecycling/website/pkg/clientip"
	"github.com/ppsprecycling/website/pkg/cookie"
	"github.com/ppsprecycling/website/pkg/environment"
	"github.com/ppsprecycling/website/pkg/httpserver"
	"github.com/ppsprecycling/website/pkg/metrics"
	"github.com/ppsprecycling/website/pkg/qrcode"
	"github.com/ppsprecycling/website/pkg/requestid"
	"github.com/ppsprecycling/website/pkg/throttle"
)

const (
	directionsPath = "/qr/directions.png"
	directionsSize = 256

	// A contact form is three short fields; anything larger is not ours.
	maxContactBody = 64 << 10
)

//go:embed static
var staticFiles embed.FS

var ErrInvalidOptions = errors.New("site.errors.invalid_options")

// Options are the collaborators of the site. Content, Registry and Cookies
// are required.
type Options struct {
	Content  *content.Site
	Registry *contact.Registry
	Cookies  *cookie.Manager

	Logger      *slog.Logger
	Environment environment.Environment
	ClientIP    *clientip.Resolver
	Metrics     *metrics.Metrics
	Throttle    *throttle.Limiter
	Ready       map[string]httpserver.Check
	Now         func() time.Time
}

// Service serves the site pages and the contact endpoints.
type Service struct {
	content      *content.Site
	registry     *contact.Registry
	cookies      *cookie.Manager
	log          *slog.Logger
	env          environment.Environment
	resolver     *clientip.Resolver
	metrics      *metrics.Metrics
	throttle     *throttle.Limiter
	ready        map[string]httpserver.Check
	now          func() time.Time
	errorHandler handler.ErrorHandler
}

func New(opts Options) (*Service, error) {
	if opts.Content == nil || opts.Registry == nil || opts.Cookies == nil {
		return nil, ErrInvalidOptions
	}

	s := &Service{
		content:  opts.Content,
		registry: opts.Registry,
		cookies:  opts.Cookies,
		log:      opts.Logger,
		env:      opts.Environment,
		resolver: opts.ClientIP,
		metrics:  opts.Metrics,
		throttle: opts.Throttle,
		ready:    opts.Ready,
		now:      opts.Now,
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.env == "" {
		s.env = environment.Development
	}
	if s.resolver == nil {
		s.resolver = clientip.NewResolver(clientip.DefaultHeaders...)
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.errorHandler = handler.NewErrorHandler(s.log, handler.ErrorHandlerConfig{
		ErrorPage:  views.ErrorPage,
		ErrorToast: views.ErrorToast,
	})
	return s, nil
}

// Handle builds the router.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP)
//	return srv.Run(ctx, svc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(s.resolver.Middleware)
	r.Use(environment.Middleware(s.env))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware(routePattern))
	}

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(s.log, s.ready))
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
	r.Method(http.MethodGet, directionsPath, qrcode.Handler(s.content.Contact.MapURL, directionsSize))

	r.Group(func(r chi.Router) {
		r.Use(VisitorMiddleware(s.cookies))

		onError := handler.WithErrorHandler(s.errorHandler)
		r.Get("/", handler.Wrap(s.home, onError))
		r.Get("/contact", handler.Wrap(s.panel, onError))

		r.With(s.guard()...).Post("/contact", handler.Wrap(s.submit,
			handler.WithBinders(binder.Signals(), binder.Form()),
			handler.WithMaxBody(maxContactBody),
			onError,
		))
	})

	r.NotFound(handler.Fail(handler.ErrNotFound, handler.WithErrorHandler(s.errorHandler)))
	r.MethodNotAllowed(handler.Fail(handler.ErrMethodNotAllowed, handler.WithErrorHandler(s.errorHandler)))

	return r
}

// guard returns the per-IP throttle for the submit endpoint, if configured.
func (s *Service) guard() []func(http.Handler) http.Handler {
	if s.throttle == nil {
		return nil
	}
	limited := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		if s.metrics != nil {
			s.metrics.ThrottleBlocks.Inc()
		}
		return handler.Error(handler.ErrTooManyRequests)
	}, handler.WithErrorHandler(s.errorHandler))
	return []func(http.Handler) http.Handler{throttle.Middleware(s.throttle, throttle.ByIP, limited)}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
