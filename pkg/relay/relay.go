package relay

import (
	"context"
	"time"
)

// Params are the template parameters of a contact message.
type Params struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Message is one delivery request: the relay credentials plus the parameters.
type Message struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Params     Params
}

// Relay delivers a contact message to the shop. Implementations make a
// single attempt and never retry.
type Relay interface {
	Send(ctx context.Context, msg Message) error
}

// Func adapts a function to the Relay interface.
type Func func(ctx context.Context, msg Message) error

func (f Func) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Observer receives the outcome of every delivery attempt.
type Observer func(ctx context.Context, driver string, took time.Duration, err error)

// Instrument wraps r so each Send is reported to observe.
func Instrument(r Relay, driver string, observe Observer) Relay {
	if observe == nil {
		return r
	}
	return Func(func(ctx context.Context, msg Message) error {
		start := time.Now()
		err := r.Send(ctx, msg)
		observe(ctx, driver, time.Since(start), err)
		return err
	})
}
