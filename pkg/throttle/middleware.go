package throttle

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ppsprecycling/website/pkg/clientip"
)

const maxKeyLength = 64

// KeyFunc extracts a throttle key from the request.
type KeyFunc func(r *http.Request) string

// ByIP keys requests by the client address stored by clientip.Middleware,
// falling back to resolving it from the request.
func ByIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// Composite joins the non-empty results of keyFuncs. Keys longer than 64
// bytes are hashed with FNV-1a.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}

		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}

		h := fnv.New64a()
		h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

// Middleware rejects requests that exceed the limit for their key with
// 429 and a Retry-After header, or hands them to onLimited when set.
// Requests with an empty key pass through.
func Middleware(l *Limiter, keyFunc KeyFunc, onLimited http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := l.Reserve(key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			if wait > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
			if onLimited != nil {
				onLimited.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		})
	}
}
