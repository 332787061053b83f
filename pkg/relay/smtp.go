package relay

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Renderer produces the subject and HTML body of the notification sent to
// the shop for drivers that build the email themselves.
type Renderer interface {
	Render(ctx context.Context, msg Message) (subject, html string, err error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, msg Message) (string, string, error)

func (f RendererFunc) Render(ctx context.Context, msg Message) (string, string, error) {
	return f(ctx, msg)
}

// Dialer opens an authenticated SMTP session; *gomail.Dialer satisfies it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

type dialResult struct {
	sender gomail.SendCloser
	err    error
}

// SMTP renders the notification and sends it through an SMTP server.
type SMTP struct {
	dialer   Dialer
	renderer Renderer
	from     string
	to       string
}

func NewSMTP(cfg SMTPConfig, renderer Renderer) (*SMTP, error) {
	if cfg.Host == "" || cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("%w: smtp host, sender and recipient are required", ErrInvalidConfig)
	}
	if renderer == nil {
		return nil, fmt.Errorf("%w: smtp relay needs a renderer", ErrInvalidConfig)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	return NewSMTPWithDialer(d, renderer, cfg.From, cfg.To), nil
}

// NewSMTPWithDialer builds the relay around an existing dialer.
func NewSMTPWithDialer(d Dialer, renderer Renderer, from, to string) *SMTP {
	return &SMTP{dialer: d, renderer: renderer, from: from, to: to}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	subject, html, err := s.renderer.Render(ctx, msg)
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	if replyTo := singleLine(msg.Params.Email); replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", singleLine(subject))
	m.SetBody("text/plain", plainBody(msg.Params))
	m.AddAlternative("text/html", html)

	sender, err := s.dial(ctx)
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	defer sender.Close()

	// Once the exchange starts its outcome is awaited even past ctx, so a
	// message the server accepted is never reported as failed and retried.
	if err := gomail.Send(sender, m); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	return nil
}

// dial connects unless ctx ends first. A session that completes after ctx
// ended is closed without sending anything.
func (s *SMTP) dial(ctx context.Context) (gomail.SendCloser, error) {
	dialed := make(chan dialResult, 1)
	go func() {
		sender, err := s.dialer.Dial()
		dialed <- dialResult{sender: sender, err: err}
	}()

	select {
	case r := <-dialed:
		if r.err != nil {
			return nil, r.err
		}
		if err := ctx.Err(); err != nil {
			_ = r.sender.Close()
			return nil, err
		}
		return r.sender, nil
	case <-ctx.Done():
		go func() {
			if r := <-dialed; r.err == nil {
				_ = r.sender.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

func plainBody(p Params) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\n%s\n", p.Name, p.Email, p.Message)
}
