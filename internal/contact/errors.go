package contact

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRateLimited    = errors.New("contact.errors.rate_limited")
	ErrInvalidInput   = errors.New("contact.errors.invalid_input")
	ErrConfigMissing  = errors.New("contact.errors.config_missing")
	ErrDeliveryFailed = errors.New("contact.errors.delivery_failed")

	// ErrSubmissionInFlight is returned for a submit while another one is
	// being delivered. It is not a SubmissionError and is never shown.
	ErrSubmissionInFlight = errors.New("contact.errors.submission_in_flight")
	ErrControllerClosed   = errors.New("contact.errors.controller_closed")
	ErrEmptyVisitorID     = errors.New("contact.errors.empty_visitor_id")
	ErrInvalidConfig      = errors.New("contact.errors.invalid_config")
)

// Messages shown to the visitor.
const (
	MessageInvalidInput   = "Please enter a valid name and message (min 10 characters)."
	MessageDeliveryFailed = "Failed to send message. Please try again or call us directly."
)

// Kind classifies a SubmissionError.
type Kind int

const (
	KindRateLimited Kind = iota + 1
	KindInvalidInput
	KindConfigMissing
	KindDeliveryFailed
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindInvalidInput:
		return "invalid_input"
	case KindConfigMissing:
		return "config_missing"
	case KindDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindRateLimited:
		return ErrRateLimited
	case KindInvalidInput:
		return ErrInvalidInput
	case KindConfigMissing:
		return ErrConfigMissing
	default:
		return ErrDeliveryFailed
	}
}

// SubmissionError is a failed submission as the visitor sees it.
// Message is safe to render; Cause is for logs only.
type SubmissionError struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	Cause      error
}

func (e *SubmissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Cause)
	}
	return e.Kind.sentinel().Error()
}

// Unwrap exposes the kind sentinel and the cause to errors.Is.
func (e *SubmissionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Cause}
}

func rateLimited(retryAfter time.Duration) *SubmissionError {
	secs := int((retryAfter + time.Second - 1) / time.Second)
	secs = max(secs, 1)
	return &SubmissionError{
		Kind:       KindRateLimited,
		Message:    fmt.Sprintf("Please wait %d seconds before sending another message.", secs),
		RetryAfter: retryAfter,
	}
}

func invalidInput(cause error) *SubmissionError {
	return &SubmissionError{Kind: KindInvalidInput, Message: MessageInvalidInput, Cause: cause}
}

func configMissing(missing []string) *SubmissionError {
	return &SubmissionError{
		Kind:    KindConfigMissing,
		Message: MessageDeliveryFailed,
		Cause:   fmt.Errorf("missing relay credentials: %v", missing),
	}
}

func deliveryFailed(cause error) *SubmissionError {
	return &SubmissionError{Kind: KindDeliveryFailed, Message: MessageDeliveryFailed, Cause: cause}
}

// AsSubmissionError extracts a *SubmissionError from err.
func AsSubmissionError(err error) (*SubmissionError, bool) {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
