package clientip

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders lists proxy headers in the order they are trusted.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver extracts the client address from a request.
type Resolver struct {
	headers []string
}

// NewResolver trusts the given proxy headers in order. With no headers only
// the connection's remote address is used.
func NewResolver(headers ...string) *Resolver {
	return &Resolver{headers: headers}
}

// GetIP returns the first valid address found in the trusted headers, falling
// back to RemoteAddr. X-Forwarded-For style lists yield their first valid entry.
func (res *Resolver) GetIP(r *http.Request) string {
	for _, h := range res.headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		for part := range strings.SplitSeq(value, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// Middleware stores the resolved address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.GetIP(r))))
	})
}

// GetIP resolves the client address using DefaultHeaders.
func GetIP(r *http.Request) string {
	return NewResolver(DefaultHeaders...).GetIP(r)
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the address stored by Middleware, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
