package views

import (
	"encoding/json"

	"github.com/a-h/templ"

	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/internal/content"
)

const (
	ContactPanelID     = "contact-panel"
	ContactPanelTarget = "#" + ContactPanelID
	contactEndpoint    = "/contact"
)

// ContactParams carries the static contact copy plus one visitor's state.
type ContactParams struct {
	Copy     content.Contact
	Snapshot contact.Snapshot
	QRPath   string
}

// ContactSignals are the client-side signals bound to the form fields.
type ContactSignals struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SignalsFor returns the signals that mirror in.
func SignalsFor(in contact.FormInput) ContactSignals {
	return ContactSignals{Name: in.Name, Email: in.Email, Message: in.Message}
}

// ContactSection renders the contact details and the visitor's panel.
func ContactSection(p ContactParams) templ.Component {
	c := p.Copy
	return component(func(h *writer) {
		h.open("section", "id", "contact", "class", "section contact")
		h.element("h2", c.Heading)
		h.element("p", c.Intro, "class", "lead")

		h.open("div", "class", "contact-grid")
		h.open("address", "class", "contact-details")
		h.element("p", c.Address)
		h.open("p")
		h.link("tel:"+c.Phone, c.Phone)
		h.close("p")
		h.open("p")
		h.link("mailto:"+c.Email, c.Email)
		h.close("p")
		h.open("ul", "class", "hours")
		for _, line := range c.Hours {
			h.element("li", line)
		}
		h.close("ul")
		if p.QRPath != "" {
			h.open("figure", "class", "directions")
			h.open("img", "src", safeURL(p.QRPath), "alt", "QR code with directions to the shop", "width", "160", "height", "160")
			h.open("figcaption")
			h.link(c.MapURL, "Get directions", "target", "_blank", "rel", "noopener")
			h.close("figcaption")
			h.close("figure")
		}
		h.close("address")

		h.component(ContactPanel(p))
		h.close("div")
		h.close("section")
	})
}

// ContactPanel renders #contact-panel for the current state: the success
// message while Submitted, otherwise the form with any error.
func ContactPanel(p ContactParams) templ.Component {
	s := p.Snapshot
	return component(func(h *writer) {
		class := "contact-panel"
		if s.IsFailed() {
			class += " contact-panel--failed"
		}
		h.open("div", "id", ContactPanelID, "class", class, "data-state", s.State.Name())
		if s.IsSubmitted() {
			h.open("div", "class", "contact-success", "role", "status")
			h.element("h3", p.Copy.SuccessTitle)
			h.element("p", p.Copy.SuccessBody)
			h.close("div")
			h.close("div")
			return
		}
		h.component(contactForm(p))
		h.close("div")
	})
}

func contactForm(p ContactParams) templ.Component {
	s := p.Snapshot
	in := s.Input
	return component(func(h *writer) {
		signals, err := json.Marshal(SignalsFor(in))
		if err != nil {
			h.err = err
			return
		}
		h.open("form", "id", "contact-form", "method", "post", "action", contactEndpoint,
			"data-signals", string(signals),
			"data-on:submit__prevent", "@post('"+contactEndpoint+"')",
			"data-indicator:_sending", "",
		)

		h.field("name", "NAME", "text", in.Name, "autocomplete", "name", "minlength", "2")
		h.field("email", "EMAIL", "email", in.Email, "autocomplete", "email")

		h.open("label", "for", "contact-message")
		h.text("MESSAGE")
		h.close("label")
		h.open("textarea", "id", "contact-message", "name", "message", "rows", "5", "required", "", "minlength", "10", "data-bind:message", "")
		h.text(in.Message)
		h.close("textarea")

		if msg := s.ErrorMessage(); msg != "" {
			h.element("p", msg, "class", "form-error", "role", "alert")
		}

		label := p.Copy.SubmitLabel
		if s.IsSubmitting() {
			label = p.Copy.SendingLabel
		}
		attrs := []string{
			"type", "submit", "class", "button button-power",
			"data-attr:disabled", "$_sending",
			"data-text", "$_sending ? " + jsString(p.Copy.SendingLabel) + " : " + jsString(p.Copy.SubmitLabel),
		}
		if s.IsSubmitting() {
			attrs = append(attrs, "disabled", "")
		}
		h.element("button", label, attrs...)
		h.close("form")
	})
}

func (h *writer) field(name, label, typ, value string, attrs ...string) {
	id := "contact-" + name
	h.open("label", "for", id)
	h.text(label)
	h.close("label")
	base := []string{"id", id, "name", name, "type", typ, "value", value, "required", "", "data-bind:" + name, ""}
	h.open("input", append(base, attrs...)...)
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
