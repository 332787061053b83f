package site

import (
	"context"
	"net/http"
	"time"

	"github.com/ppsprecycling/website/pkg/cookie"
	"github.com/ppsprecycling/website/pkg/environment"
)

// VisitorCookie names the signed cookie that identifies a browser.
const VisitorCookie = "ppsp_vid"

const visitorTTL = 365 * 24 * time.Hour

type visitorKey struct{}

func WithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey{}, id)
}

// VisitorFromContext returns the visitor id set by VisitorMiddleware.
func VisitorFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(visitorKey{}).(string); ok {
		return id
	}
	return ""
}

// VisitorMiddleware makes sure every request carries a visitor id. A
// missing, tampered or malformed cookie is replaced with a fresh id, marked
// Secure in production.
func VisitorMiddleware(cookies *cookie.Manager) func(http.Handler) http.Handler {
	visitor := cookies.VisitorID(VisitorCookie, visitorTTL)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var opts []cookie.Option
			if environment.FromContext(r.Context()).IsProduction() {
				opts = append(opts, cookie.WithSecure(true))
			}
			id, _ := visitor.Ensure(w, r, opts...)
			next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), id)))
		})
	}
}
