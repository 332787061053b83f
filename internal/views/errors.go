package views

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/ppsprecycling/website/handler"
)

// ErrorPage renders a full page for failed non-DataStar requests.
func ErrorPage(p handler.ErrorPageParams) templ.Component {
	title := http.StatusText(p.StatusCode)
	if title == "" {
		title = "Error"
	}
	body := component(func(h *writer) {
		h.open("main", "class", "error-page")
		h.open("h1")
		h.int(p.StatusCode)
		h.text(" " + title)
		h.close("h1")
		h.element("p", p.Error)
		if p.RequestID != "" {
			h.element("p", "Reference: "+p.RequestID, "class", "request-id")
		}
		retry := p.RetryURL
		if retry == "" {
			retry = "/"
		}
		h.link(retry, "TRY AGAIN", "class", "button")
		h.close("main")
	})
	return Layout(LayoutParams{Title: title}, body)
}

// ErrorToast renders a dismissible toast for DataStar requests.
func ErrorToast(p handler.ErrorToastParams) templ.Component {
	kind := p.Type
	if kind == "" {
		kind = "error"
	}
	return component(func(h *writer) {
		h.open("div", "class", "toast toast-"+kind, "role", "alert", "data-signals:_toast", "true", "data-show", "$_toast")
		h.element("p", p.Message)
		if p.RequestID != "" {
			h.element("small", p.RequestID)
		}
		h.element("button", "×", "type", "button", "aria-label", "Dismiss", "data-on:click", "$_toast = false")
		h.close("div")
	})
}
