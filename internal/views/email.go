package views

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/ppsprecycling/website/pkg/relay"
	"github.com/ppsprecycling/website/pkg/sanitizer"
)

// ContactEmail renders the notification the shop receives.
func ContactEmail(p relay.Params) templ.Component {
	return component(func(h *writer) {
		h.raw("<!DOCTYPE html>")
		h.open("html")
		h.open("body", "style", "font-family: monospace")
		h.element("h2", "New message from the website")
		h.open("table", "cellpadding", "4")
		h.row("Name", p.Name)
		h.open("tr")
		h.element("th", "Email", "align", "left")
		h.open("td")
		h.link("mailto:"+p.Email, p.Email)
		h.close("td")
		h.close("tr")
		h.close("table")
		h.open("pre", "style", "white-space: pre-wrap")
		h.text(p.Message)
		h.close("pre")
		h.close("body")
		h.close("html")
	})
}

func (h *writer) row(label, value string) {
	h.open("tr")
	h.element("th", label, "align", "left")
	h.element("td", value)
	h.close("tr")
}

// EmailSubject is the subject line of the shop notification.
func EmailSubject(p relay.Params) string {
	return "Website contact: " + sanitizer.SingleLine(p.Name)
}

// EmailRenderer renders ContactEmail for relays that compose mail themselves.
func EmailRenderer() relay.Renderer {
	return relay.RendererFunc(func(ctx context.Context, msg relay.Message) (string, string, error) {
		var buf bytes.Buffer
		if err := ContactEmail(msg.Params).Render(ctx, &buf); err != nil {
			return "", "", err
		}
		return EmailSubject(msg.Params), buf.String(), nil
	})
}
