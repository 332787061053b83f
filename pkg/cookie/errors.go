package cookie

import "errors"

var (
	ErrNoSecret         = errors.New("cookie.errors.no_secret")
	ErrSecretTooShort   = errors.New("cookie.errors.secret_too_short")
	ErrCookieNotFound   = errors.New("cookie.errors.not_found")
	ErrInvalidFormat    = errors.New("cookie.errors.invalid_format")
	ErrInvalidSignature = errors.New("cookie.errors.invalid_signature")
)
