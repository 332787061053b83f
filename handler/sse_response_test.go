package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/handler"
)

func dataStarRequest(ctx context.Context) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/contact", nil).WithContext(ctx)
	r.Header.Set(handler.DataStarHeader, "true")
	return r
}

func TestSSE_RequiresDataStar(t *testing.T) {
	t.Parallel()

	resp := handler.SSE(func(handler.StreamContext) error { return nil })
	err := resp.Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var httpErr handler.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSSE_SendsPatchesAndSignals(t *testing.T) {
	t.Parallel()

	resp := handler.SSE(func(stream handler.StreamContext) error {
		if err := stream.SendComponent(mockComponent{content: "<p>sending</p>"}, handler.WithTarget("#contact-panel")); err != nil {
			return err
		}
		if err := stream.RemoveElement(".toast"); err != nil {
			return err
		}
		if err := stream.SendComponent(mockComponent{content: "<p>sent</p>"}, handler.WithTarget("#contact-panel")); err != nil {
			return err
		}
		return stream.SendSignals(map[string]any{"name": ""})
	})

	w := httptest.NewRecorder()
	require.NoError(t, resp.Render(w, dataStarRequest(context.Background())))

	body := w.Body.String()
	assert.Contains(t, body, "sending")
	assert.Contains(t, body, "sent")
	assert.Contains(t, body, "selector .toast")
	assert.Contains(t, body, "mode remove")
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"name":""`)
}

func TestSSE_StopsWithClient(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	resp := handler.SSE(func(stream handler.StreamContext) error {
		<-stream.Done()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- resp.Render(httptest.NewRecorder(), dataStarRequest(ctx)) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after the client went away")
	}
}
