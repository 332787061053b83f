package ratelimiter

import "errors"

var (
	ErrInvalidWindow    = errors.New("ratelimiter.errors.invalid_window")
	ErrEmptyKey         = errors.New("ratelimiter.errors.empty_key")
	ErrStoreUnavailable = errors.New("ratelimiter.errors.store_unavailable")
)
