package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dev writes each message to disk instead of delivering it: an HTML file
// with the rendered notification and a JSON file with the raw request.
type Dev struct {
	dir      string
	renderer Renderer
	now      func() time.Time
}

func NewDev(dir string, renderer Renderer) *Dev {
	return &Dev{dir: dir, renderer: renderer, now: time.Now}
}

type devRecord struct {
	Timestamp  string `json:"timestamp"`
	ServiceID  string `json:"service_id"`
	TemplateID string `json:"template_id"`
	Subject    string `json:"subject"`
	Params     Params `json:"template_params"`
}

func (d *Dev) Send(ctx context.Context, msg Message) error {
	subject, html, err := d.renderer.Render(ctx, msg)
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	now := d.now()
	base := filepath.Join(d.dir, fmt.Sprintf("%s_contact", now.Format("2006_01_02_150405.000000")))

	if err := os.WriteFile(base+".html", []byte(html), 0o644); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	data, err := json.MarshalIndent(devRecord{
		Timestamp:  now.Format(time.RFC3339),
		ServiceID:  msg.ServiceID,
		TemplateID: msg.TemplateID,
		Subject:    subject,
		Params:     msg.Params,
	}, "", "  ")
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	if err := os.WriteFile(base+".json", data, 0o644); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	return nil
}
