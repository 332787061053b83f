package relay

import (
	"errors"
	"fmt"
)

var (
	ErrDeliveryFailed = errors.New("relay.errors.delivery_failed")
	ErrInvalidConfig  = errors.New("relay.errors.invalid_config")
	ErrUnknownDriver  = errors.New("relay.errors.unknown_driver")
)

// StatusError is returned when the relay API answers with a non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay responded with status %d: %s", e.Code, e.Body)
}
