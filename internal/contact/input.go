package contact

import (
	"time"

	"github.com/ppsprecycling/website/pkg/relay"
	"github.com/ppsprecycling/website/pkg/sanitizer"
	"github.com/ppsprecycling/website/pkg/validator"
)

const (
	minNameLength    = 2
	minMessageLength = 10
)

// FormInput is the content of the contact form as typed.
type FormInput struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

// IsZero reports whether every field is empty.
func (in FormInput) IsZero() bool {
	return in == FormInput{}
}

// Attempt is one submission after sanitization. The email is kept as typed.
type Attempt struct {
	Name      string
	Email     string
	Message   string
	Timestamp time.Time
}

// Sanitize removes angle brackets and surrounding whitespace. It is idempotent.
func Sanitize(s string) string {
	return sanitizer.PlainText(s)
}

// NewAttempt sanitizes in.
func NewAttempt(in FormInput, at time.Time) Attempt {
	return Attempt{
		Name:      Sanitize(in.Name),
		Email:     in.Email,
		Message:   Sanitize(in.Message),
		Timestamp: at,
	}
}

// Validate checks the minimum lengths, counted in characters.
func (a Attempt) Validate() error {
	return validator.Apply(
		validator.MinLen("name", a.Name, minNameLength),
		validator.MinLen("message", a.Message, minMessageLength),
	)
}

// Params are the relay template parameters for the attempt.
func (a Attempt) Params() relay.Params {
	return relay.Params{
		Name:    a.Name,
		Email:   a.Email,
		Message: a.Message,
	}
}
