package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/internal/content"
	"github.com/ppsprecycling/website/internal/site"
	"github.com/ppsprecycling/website/pkg/cookie"
	"github.com/ppsprecycling/website/pkg/metrics"
	"github.com/ppsprecycling/website/pkg/ratelimiter"
	"github.com/ppsprecycling/website/pkg/relay"
	"github.com/ppsprecycling/website/pkg/throttle"
)

const cookieSecret = "0123456789abcdef0123456789abcdef"

type recordingRelay struct {
	mu   sync.Mutex
	sent []relay.Message
	err  error
}

func (r *recordingRelay) Send(_ context.Context, msg relay.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingRelay) calls() []relay.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]relay.Message(nil), r.sent...)
}

type fixture struct {
	handler http.Handler
	relay   *recordingRelay
	metrics *metrics.Metrics
}

type fixtureOption func(*site.Options)

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	cooldown, err := ratelimiter.NewCooldown(store, 30*time.Second)
	require.NoError(t, err)

	rl := &recordingRelay{}
	registry, err := contact.NewRegistry(contact.Config{
		ServiceID:       "service_abc",
		TemplateID:      "template_xyz",
		PublicKey:       "pk_123",
		Cooldown:        30 * time.Second,
		SuccessDisplay:  200 * time.Millisecond,
		DeliveryTimeout: time.Second,
		MaxVisitors:     16,
	}, cooldown, rl)
	require.NoError(t, err)
	t.Cleanup(registry.Close)

	cookies, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)

	m := metrics.New()
	o := site.Options{
		Content:  content.MustDefault(),
		Registry: registry,
		Cookies:  cookies,
		Metrics:  m,
	}
	for _, opt := range opts {
		opt(&o)
	}

	svc, err := site.New(o)
	require.NoError(t, err)
	return &fixture{handler: svc.Handle(), relay: rl, metrics: m}
}

func (f *fixture) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func visitorCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == site.VisitorCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", site.VisitorCookie)
	return nil
}

func formPost(values url.Values, c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Jo"},
		"email":   {"a@b.com"},
		"message": {"Hello there!"},
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := site.New(site.Options{})
	assert.ErrorIs(t, err, site.ErrInvalidOptions)
}

func TestHome_AssignsVisitor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="contact-panel"`)
	assert.Contains(t, w.Body.String(), "PPSP")

	c := visitorCookie(t, w)
	assert.True(t, c.HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	w = f.do(r)
	assert.Empty(t, w.Result().Cookies(), "a valid cookie is reused")
}

func TestHome_ReplacesTamperedCookie(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: site.VisitorCookie, Value: "forged"})
	w := f.do(r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "forged", visitorCookie(t, w).Value)
}

func TestSubmit_FormPost(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(formPost(url.Values{
		"name":    {"  <b>Jo</b> "},
		"email":   {"a@b.com"},
		"message": {"Hello there!"},
	}, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MESSAGE SENT")

	calls := f.relay.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "bJo/b", calls[0].Params.Name)
	assert.Equal(t, "service_abc", calls[0].ServiceID)

	again := f.do(formPost(validForm(), visitorCookie(t, w)))
	assert.Equal(t, http.StatusTooManyRequests, again.Code)
	assert.NotEmpty(t, again.Header().Get("Retry-After"))
	assert.Contains(t, again.Body.String(), "Please wait")
	assert.Len(t, f.relay.calls(), 1, "rate limited attempts never reach the relay")
}

func TestSubmit_FormPostInvalid(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(formPost(url.Values{
		"name":    {"A"},
		"email":   {"a@b.com"},
		"message": {"short"},
	}, nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "form-error")
	assert.Empty(t, f.relay.calls())
}

func TestSubmit_FormPostDeliveryFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.relay.err = assert.AnError

	w := f.do(formPost(validForm(), nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `value="Jo"`, "input is kept after a failure")
}

func TestSubmit_DataStarStreamsThroughRevert(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/contact",
		strings.NewReader(`{"name":"Jo","email":"a@b.com","message":"Hello there!"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Datastar-Request", "true")
	w := f.do(r)

	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "#contact-panel")
	assert.Contains(t, body, "MESSAGE SENT")
	assert.Contains(t, body, "datastar-patch-signals")

	success := strings.Index(body, "MESSAGE SENT")
	form := strings.LastIndex(body, `id="contact-form"`)
	assert.Greater(t, form, success, "the form is patched back after the success display")
	assert.Len(t, f.relay.calls(), 1)
}

func TestSubmit_DataStarError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/contact",
		strings.NewReader(`{"name":"A","email":"a@b.com","message":"short"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Datastar-Request", "true")
	w := f.do(r)

	body := w.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "form-error")
	assert.NotContains(t, body, "datastar-patch-signals")
}

func TestPanel_DataStarPatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/contact?datastar=%7B%7D", nil)
	r.Header.Set("Datastar-Request", "true")
	w := f.do(r)

	assert.Contains(t, w.Body.String(), "datastar-patch-elements")
	assert.NotContains(t, w.Body.String(), "<!DOCTYPE html>")
}

func TestSubmit_Throttled(t *testing.T) {
	t.Parallel()

	limiter := throttle.New(throttle.Config{PerMinute: 1, Burst: 1, IdleTTL: time.Minute})
	t.Cleanup(limiter.Close)
	f := newFixture(t, func(o *site.Options) { o.Throttle = limiter })

	first := f.do(formPost(validForm(), nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := f.do(formPost(validForm(), nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ThrottleBlocks), 0)
}

func TestInfrastructureRoutes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, "READY", w.Body.String())

	w = f.do(httptest.NewRequest(http.MethodGet, "/qr/directions.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = f.do(httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ppsp_http_requests_total`)
}
