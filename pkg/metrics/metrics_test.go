package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/pkg/metrics"
)

func TestRecordSubmission(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.RecordSubmission(metrics.OutcomeDelivered)
	m.RecordSubmission(metrics.OutcomeDelivered)
	m.RecordSubmission(metrics.OutcomeRateLimited)

	assert.InDelta(t, 2, testutil.ToFloat64(m.ContactSubmissions.WithLabelValues(metrics.OutcomeDelivered)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ContactSubmissions.WithLabelValues(metrics.OutcomeRateLimited)), 0)
}

func TestObserveRelay(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	ctx := context.Background()
	m.ObserveRelay(ctx, "emailjs", 120*time.Millisecond, nil)
	m.ObserveRelay(ctx, "emailjs", time.Second, errors.New("boom"))
	m.ObserveRelay(ctx, "emailjs", 15*time.Second, context.DeadlineExceeded)

	assert.Equal(t, 3, testutil.CollectAndCount(m.RelayDuration))
}

func TestMiddlewareAndHandler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	h := m.Middleware(func(*http.Request) string { return "/contact" })(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil))

	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/contact", "202")), 0)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "ppsp_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	h := m.Middleware(nil)(http.NotFoundHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 0)
}
