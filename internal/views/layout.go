package views

import (
	"github.com/a-h/templ"
)

const dataStarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// LayoutParams configures the HTML document shell.
type LayoutParams struct {
	Title       string
	Description string
}

// Layout wraps body in the document shell with the DataStar client and the
// toast container used by the error handler.
func Layout(p LayoutParams, body templ.Component) templ.Component {
	return component(func(h *writer) {
		h.raw("<!DOCTYPE html>")
		h.open("html", "lang", "en")
		h.open("head")
		h.raw(`<meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.element("title", p.Title)
		if p.Description != "" {
			h.open("meta", "name", "description", "content", p.Description)
		}
		h.open("link", "rel", "stylesheet", "href", "/static/site.css")
		h.open("script", "type", "module", "src", dataStarScript)
		h.close("script")
		h.close("head")

		h.open("body", "class", "crt")
		h.open("div", "id", "toast-container", "class", "toasts", "aria-live", "polite")
		h.close("div")
		h.component(body)
		h.close("body")
		h.close("html")
	})
}
