package binder

import "errors"

var (
	// ErrBinderNotApplicable tells the caller to skip this binder for the
	// request, e.g. a form binder on a GET request.
	ErrBinderNotApplicable  = errors.New("binder not applicable")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrInvalidSignals       = errors.New("invalid datastar signals")
)
