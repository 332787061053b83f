package handler

import (
	"errors"
	"net/http"

	"github.com/ppsprecycling/website/pkg/binder"
)

// HandlerFunc answers a request whose input was bound into R. Pages that
// take no input use struct{}.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from r. Returning binder.ErrBinderNotApplicable hands the
// request to the next Bind.
type Bind func(r *http.Request, v any) error

// ErrorHandler answers a request that failed to bind or render.
type ErrorHandler func(ctx Context, err error)

// Option configures an endpoint built by Wrap or Fail.
type Option func(*endpoint)

type endpoint struct {
	binders      []Bind
	errorHandler ErrorHandler
	maxBody      int64
}

// WithBinders tries binders in order until one applies.
func WithBinders(binders ...Bind) Option {
	return func(e *endpoint) { e.binders = append(e.binders, binders...) }
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(e *endpoint) {
		if h != nil {
			e.errorHandler = h
		}
	}
}

// WithMaxBody caps the request body read by binders. A larger body fails
// with ErrRequestTooLarge before the handler runs.
func WithMaxBody(n int64) Option {
	return func(e *endpoint) { e.maxBody = n }
}

// plainErrorHandler is used when no ErrorHandler is configured.
func plainErrorHandler(ctx Context, err error) {
	code, text := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		code, text = httpErr.Code, httpErr.Key
	}
	http.Error(ctx.ResponseWriter(), text, code)
}

// Wrap adapts h to net/http.
//
//	r.Post("/contact", handler.Wrap(s.submit,
//		handler.WithBinders(binder.Signals(), binder.Form()),
//		handler.WithMaxBody(64<<10),
//		handler.WithErrorHandler(s.errorHandler),
//	))
func Wrap[R any](h HandlerFunc[R], opts ...Option) http.HandlerFunc {
	e := &endpoint{errorHandler: plainErrorHandler}
	for _, opt := range opts {
		opt(e)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if e.maxBody > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, e.maxBody)
		}
		ctx := NewContext(w, r)

		var req R
		if err := e.bind(r, &req); err != nil {
			e.errorHandler(ctx, err)
			return
		}

		resp := h(ctx, req)
		if resp == nil {
			e.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			e.errorHandler(ctx, err)
		}
	}
}

func (e *endpoint) bind(r *http.Request, v any) error {
	for _, bind := range e.binders {
		err := bind(r, v)
		if err == nil {
			return nil
		}
		if errors.Is(err, binder.ErrBinderNotApplicable) {
			continue
		}
		if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
			return errors.Join(ErrRequestTooLarge, err)
		}
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

// Fail answers every request with err through the configured error handler.
//
//	r.NotFound(handler.Fail(handler.ErrNotFound, handler.WithErrorHandler(eh)))
func Fail(err error, opts ...Option) http.HandlerFunc {
	return Wrap(func(Context, struct{}) Response { return Error(err) }, opts...)
}
