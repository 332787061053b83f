// Package requestid attaches a correlation id to every HTTP request, echoes
// it in the X-Request-ID response header and exposes a logger extractor so
// the id lands on every log record written with the request context.
package requestid
