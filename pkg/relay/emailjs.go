package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// DefaultEmailJSURL is the public EmailJS send endpoint.
const DefaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

const maxErrorBody = 512

// EmailJS posts messages to the EmailJS REST API.
type EmailJS struct {
	endpoint   string
	privateKey string
	client     *http.Client
}

// EmailJSOption configures the EmailJS relay.
type EmailJSOption func(*EmailJS)

// WithEndpoint overrides the API URL.
func WithEndpoint(url string) EmailJSOption {
	return func(e *EmailJS) {
		if url != "" {
			e.endpoint = url
		}
	}
}

// WithPrivateKey sends the account access token along with each request,
// needed when the EmailJS account enforces it for API calls.
func WithPrivateKey(key string) EmailJSOption {
	return func(e *EmailJS) { e.privateKey = key }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) EmailJSOption {
	return func(e *EmailJS) {
		if c != nil {
			e.client = c
		}
	}
}

func NewEmailJS(opts ...EmailJSOption) *EmailJS {
	e := &EmailJS{
		endpoint: DefaultEmailJSURL,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type emailJSRequest struct {
	ServiceID      string `json:"service_id"`
	TemplateID     string `json:"template_id"`
	UserID         string `json:"user_id"`
	TemplateParams Params `json:"template_params"`
	AccessToken    string `json:"accessToken,omitempty"`
}

func (e *EmailJS) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      msg.ServiceID,
		TemplateID:     msg.TemplateID,
		UserID:         msg.PublicKey,
		TemplateParams: msg.Params,
		AccessToken:    e.privateKey,
	})
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode != http.StatusOK {
		return errors.Join(ErrDeliveryFailed, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(text)),
		})
	}
	return nil
}
