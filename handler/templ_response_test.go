package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/handler"
)

func TestTemplPartial(t *testing.T) {
	t.Parallel()

	resp := handler.TemplPartial(
		mockComponent{content: `<div id="contact-panel">panel</div>`},
		mockComponent{content: "<html>full page</html>"},
		handler.WithTarget("#contact-panel"),
	)

	t.Run("regular request renders the full component", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "<html>full page</html>", w.Body.String())
	})

	t.Run("datastar request patches the partial", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/contact", nil)
		r.Header.Set(handler.DataStarHeader, "true")
		w := httptest.NewRecorder()
		require.NoError(t, resp.Render(w, r))

		body := w.Body.String()
		assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, "#contact-panel")
		assert.Contains(t, body, "panel")
		assert.NotContains(t, body, "full page")
	})
}

func TestTemplStatus(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	resp := handler.TemplStatus(http.StatusNotFound, mockComponent{content: "missing"})
	require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/x", nil)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "missing", w.Body.String())
}
