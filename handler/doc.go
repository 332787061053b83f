// Package handler turns typed handler functions into http.HandlerFunc.
//
// A HandlerFunc receives a Context and a request struct filled by binders,
// and returns a Response that renders itself. Templ components are sent as
// HTML for regular requests and as DataStar element patches for DataStar
// requests, so one handler serves both.
//
//	type ContactRequest struct {
//		Name    string `form:"name" json:"name"`
//		Email   string `form:"email" json:"email"`
//		Message string `form:"message" json:"message"`
//	}
//
//	r.Post("/contact", handler.Wrap(submit,
//		handler.WithBinders(binder.Signals(), binder.Form()),
//		handler.WithMaxBody(64<<10),
//		handler.WithErrorHandler(errorHandler),
//	))
//
// # Streaming
//
// SSE keeps a DataStar stream open for as long as its SSEHandler runs; the
// StreamContext sends further patches and signal updates.
//
// # Errors
//
// Binding and rendering errors go to the ErrorHandler. NewErrorHandler
// renders an error page, or a toast for DataStar requests, and logs the
// error with the request id. HTTPError sets the status code; validation
// errors from pkg/validator map to 400.
package handler
