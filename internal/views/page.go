package views

import (
	"github.com/a-h/templ"

	"github.com/ppsprecycling/website/internal/content"
)

// PageParams are the inputs of the home page.
type PageParams struct {
	Site    *content.Site
	Contact ContactParams
	Year    int
}

// HomePage renders the single-page site.
func HomePage(p PageParams) templ.Component {
	site := p.Site
	body := component(func(h *writer) {
		h.component(Navigation(site))
		h.open("main")
		h.component(Hero(site))
		h.component(About(site.About))
		h.component(Inventory(site.Inventory))
		h.component(Services(site.Services))
		h.component(Testimonials(site.Testimonials))
		h.component(ContactSection(p.Contact))
		h.close("main")
		h.component(Footer(site, p.Year))
	})
	return Layout(LayoutParams{Title: site.Brand, Description: site.Tagline}, body)
}
