package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// Postmark delivers messages as Postmark templated emails. The template id
// of the message is used as the template alias and the service id as tag.
type Postmark struct {
	client *postmark.Client
	from   string
	to     string
}

// PostmarkOption configures the Postmark relay.
type PostmarkOption func(*postmark.Client)

// WithPostmarkBaseURL points the client at a different API host.
func WithPostmarkBaseURL(url string) PostmarkOption {
	return func(c *postmark.Client) { c.BaseURL = url }
}

func NewPostmark(cfg PostmarkConfig, opts ...PostmarkOption) (*Postmark, error) {
	switch {
	case cfg.ServerToken == "":
		return nil, fmt.Errorf("%w: postmark server token is required", ErrInvalidConfig)
	case cfg.From == "":
		return nil, fmt.Errorf("%w: postmark sender address is required", ErrInvalidConfig)
	case cfg.To == "":
		return nil, fmt.Errorf("%w: postmark recipient address is required", ErrInvalidConfig)
	}

	client := postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	for _, opt := range opts {
		opt(client)
	}

	return &Postmark{client: client, from: cfg.From, to: cfg.To}, nil
}

func (p *Postmark) Send(ctx context.Context, msg Message) error {
	resp, err := p.client.SendTemplatedEmail(ctx, postmark.TemplatedEmail{
		TemplateAlias: msg.TemplateID,
		TemplateModel: map[string]any{
			"name":    msg.Params.Name,
			"email":   msg.Params.Email,
			"message": msg.Params.Message,
		},
		From:       p.from,
		To:         p.to,
		ReplyTo:    singleLine(msg.Params.Email),
		Tag:        msg.ServiceID,
		TrackOpens: false,
	})
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrDeliveryFailed, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
