package views_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/handler"
	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/internal/content"
	"github.com/ppsprecycling/website/internal/views"
	"github.com/ppsprecycling/website/pkg/relay"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func contactCopy() content.Contact {
	return content.Contact{
		Heading:      "CONTACT",
		Address:      "12 Circuit Lane",
		Phone:        "555-0100",
		Email:        "shop@example.com",
		MapURL:       "https://maps.example.com/?q=shop",
		SuccessTitle: "MESSAGE SENT",
		SuccessBody:  "We will reply within one business day.",
		SubmitLabel:  "SEND MESSAGE",
		SendingLabel: "TRANSMITTING...",
	}
}

func TestContactPanel(t *testing.T) {
	t.Parallel()

	t.Run("idle shows the form with current input", func(t *testing.T) {
		t.Parallel()
		html := render(t, views.ContactPanel(views.ContactParams{
			Copy: contactCopy(),
			Snapshot: contact.Snapshot{
				State: contact.StateIdle,
				Input: contact.FormInput{Name: "Jo", Email: "jo@example.com", Message: "Need a tube amp"},
			},
		}))

		assert.Contains(t, html, `id="contact-panel"`)
		assert.Contains(t, html, `data-state="idle"`)
		assert.NotContains(t, html, "contact-panel--failed")
		assert.Contains(t, html, `value="Jo"`)
		assert.Contains(t, html, `value="jo@example.com"`)
		assert.Contains(t, html, "Need a tube amp</textarea>")
		assert.Contains(t, html, "@post(&#39;/contact&#39;)")
		assert.Contains(t, html, ">SEND MESSAGE</button>")
		assert.NotContains(t, html, "form-error")
	})

	t.Run("failed shows the error message", func(t *testing.T) {
		t.Parallel()
		html := render(t, views.ContactPanel(views.ContactParams{
			Copy: contactCopy(),
			Snapshot: contact.Snapshot{
				State: contact.StateFailed,
				Error: &contact.SubmissionError{Kind: contact.KindDeliveryFailed, Message: contact.MessageDeliveryFailed},
			},
		}))

		assert.Contains(t, html, `class="contact-panel contact-panel--failed"`)
		assert.Contains(t, html, `class="form-error" role="alert"`)
		assert.Contains(t, html, templ.EscapeString(contact.MessageDeliveryFailed))
	})

	t.Run("submitting disables the button", func(t *testing.T) {
		t.Parallel()
		html := render(t, views.ContactPanel(views.ContactParams{
			Copy:     contactCopy(),
			Snapshot: contact.Snapshot{State: contact.StateSubmitting},
		}))

		assert.Contains(t, html, ` disabled="">TRANSMITTING...</button>`)
	})

	t.Run("submitted replaces the form with the success message", func(t *testing.T) {
		t.Parallel()
		html := render(t, views.ContactPanel(views.ContactParams{
			Copy:     contactCopy(),
			Snapshot: contact.Snapshot{State: contact.StateSubmitted},
		}))

		assert.Contains(t, html, "MESSAGE SENT")
		assert.NotContains(t, html, "<form")
	})

	t.Run("escapes visitor input", func(t *testing.T) {
		t.Parallel()
		html := render(t, views.ContactPanel(views.ContactParams{
			Copy: contactCopy(),
			Snapshot: contact.Snapshot{
				State: contact.StateIdle,
				Input: contact.FormInput{Name: `"><script>alert(1)</script>`},
			},
		}))

		assert.NotContains(t, html, "<script>alert(1)")
	})
}

func TestContactSection(t *testing.T) {
	t.Parallel()

	html := render(t, views.ContactSection(views.ContactParams{
		Copy:     contactCopy(),
		Snapshot: contact.Snapshot{State: contact.StateIdle},
		QRPath:   "/qr/directions.png",
	}))

	assert.Contains(t, html, `href="tel:555-0100"`)
	assert.Contains(t, html, `src="/qr/directions.png"`)
	assert.Contains(t, html, `id="contact-panel"`)
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	site := content.MustDefault()
	html := render(t, views.HomePage(views.PageParams{
		Site:    site,
		Contact: views.ContactParams{Copy: site.Contact, Snapshot: contact.Snapshot{State: contact.StateIdle}},
		Year:    2024,
	}))

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `id="toast-container"`)
	assert.Contains(t, html, "datastar")
	for _, id := range []string{`id="hero"`, `id="about"`, `id="inventory"`, `id="services"`, `id="contact"`} {
		assert.Contains(t, html, id)
	}
	assert.Contains(t, html, "&copy; 2024")
}

func TestErrorViews(t *testing.T) {
	t.Parallel()

	page := render(t, views.ErrorPage(handler.ErrorPageParams{
		Error:      "Not found",
		StatusCode: 404,
		RequestID:  "req-1",
	}))
	assert.Contains(t, page, "404 Not Found")
	assert.Contains(t, page, "Reference: req-1")

	toast := render(t, views.ErrorToast(handler.ErrorToastParams{Message: "Try again"}))
	assert.Contains(t, toast, "toast-error")
	assert.Contains(t, toast, "Try again")
}

func TestEmailRenderer(t *testing.T) {
	t.Parallel()

	subject, body, err := views.EmailRenderer().Render(context.Background(), relay.Message{
		Params: relay.Params{Name: "Jo\r\nBcc: x", Email: "jo@example.com", Message: "5 < 6"},
	})
	require.NoError(t, err)

	assert.NotContains(t, subject, "\n")
	assert.True(t, strings.HasPrefix(subject, "Website contact: Jo"))
	assert.Contains(t, body, "mailto:jo@example.com")
	assert.Contains(t, body, "5 &lt; 6")
}
