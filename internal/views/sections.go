package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/ppsprecycling/website/internal/content"
)

func Navigation(site *content.Site) templ.Component {
	return component(func(h *writer) {
		h.open("nav", "id", "top", "class", "nav")
		h.link("#top", site.Brand, "class", "nav-brand")
		h.open("ul", "class", "nav-links")
		for _, l := range site.Navigation {
			h.open("li")
			h.link(l.Href, l.Name)
			h.close("li")
		}
		h.close("ul")
		h.element("span", "ONLINE", "class", "nav-status")
		h.close("nav")
	})
}

func Hero(site *content.Site) templ.Component {
	hero := site.Hero
	return component(func(h *writer) {
		h.open("section", "id", "hero", "class", "hero", "style", "background-image: url('"+safeURL(hero.Background)+"')")
		h.element("span", hero.Status, "class", "hero-status")
		h.element("h1", hero.Title, "class", "hero-title")
		h.element("p", hero.Subtitle, "class", "hero-subtitle")
		h.element("p", site.Tagline, "class", "hero-tagline")
		h.link("#about", hero.CTA, "class", "button button-power")
		h.close("section")
	})
}

func About(a content.About) templ.Component {
	return component(func(h *writer) {
		h.open("section", "id", "about", "class", "section about")
		h.element("h2", a.Heading)
		h.element("p", a.Lead, "class", "lead")
		h.element("p", a.Body)
		h.open("img", "src", safeURL(a.Image), "alt", a.ImageAlt, "loading", "lazy")
		h.open("dl", "class", "stats")
		for _, s := range a.Stats {
			h.open("div", "class", "stat")
			h.element("dt", s.Label)
			h.element("dd", s.Value)
			h.close("div")
		}
		h.close("dl")
		h.close("section")
	})
}

func Inventory(inv content.Inventory) templ.Component {
	return component(func(h *writer) {
		h.open("section", "id", "inventory", "class", "section inventory")
		h.element("h2", inv.Heading)
		h.element("p", inv.Intro, "class", "lead")
		h.open("div", "class", "racks")
		for _, c := range inv.Categories {
			h.open("article", "id", "rack-"+c.ID, "class", "rack")
			h.open("img", "src", safeURL(c.Image), "alt", c.Title, "loading", "lazy")
			h.element("p", c.Subtitle, "class", "rack-subtitle")
			h.element("h3", c.Title)
			h.element("p", c.Description)
			h.open("ul", "class", "rack-items")
			for _, item := range c.Items {
				h.element("li", item)
			}
			h.close("ul")
			h.close("article")
		}
		h.close("div")
		h.element("p", inv.Footnote, "class", "footnote")
		h.link("#contact", "REQUEST ITEM", "class", "button")
		h.close("section")
	})
}

func Services(s content.Services) templ.Component {
	return component(func(h *writer) {
		h.open("section", "id", "services", "class", "section services")
		h.element("h2", s.Heading)
		h.element("p", s.Intro, "class", "lead")
		h.open("div", "class", "service-grid")
		for _, item := range s.Items {
			h.open("article", "id", "service-"+item.ID, "class", "service")
			h.element("h3", item.Title)
			h.element("p", item.Description)
			h.element("p", item.Outcome, "class", "service-outcome")
			h.close("article")
		}
		h.close("div")
		h.open("aside", "class", "wholesale")
		h.element("h3", s.Wholesale.Title)
		h.element("p", s.Wholesale.Body)
		h.link("#contact", s.Wholesale.CTA, "class", "button")
		h.close("aside")
		h.close("section")
	})
}

// Testimonials renders every quote; the client rotates the active one.
func Testimonials(t content.Testimonials) templ.Component {
	return component(func(h *writer) {
		if len(t.Items) == 0 {
			return
		}
		rotate := max(t.RotateSeconds, 1)

		h.open("section", "id", "testimonials", "class", "section testimonials",
			"data-signals:_quote", "0",
			"data-on-interval__duration."+itoa(rotate)+"s", "$_quote = ($_quote + 1) % "+itoa(len(t.Items)),
		)
		h.element("h2", t.Heading)
		for i, q := range t.Items {
			h.open("figure", "class", "quote", "data-show", "$_quote == "+itoa(i))
			h.element("span", strings.Repeat("★", q.Rating), "class", "rating", "aria-label", itoa(q.Rating)+" out of 5")
			h.element("blockquote", "“"+q.Content+"”")
			h.open("figcaption")
			h.element("strong", q.Name)
			h.element("span", q.Role+", "+q.Company)
			h.close("figcaption")
			h.close("figure")
		}
		h.open("div", "class", "quote-controls")
		h.element("button", "‹", "type", "button", "aria-label", "Previous testimonial",
			"data-on:click", "$_quote = ($_quote + "+itoa(len(t.Items)-1)+") % "+itoa(len(t.Items)))
		h.element("button", "›", "type", "button", "aria-label", "Next testimonial",
			"data-on:click", "$_quote = ($_quote + 1) % "+itoa(len(t.Items)))
		h.close("div")
		h.close("section")
	})
}

func Footer(site *content.Site, year int) templ.Component {
	f := site.Footer
	return component(func(h *writer) {
		h.open("footer", "class", "footer")
		h.open("div", "class", "footer-brand")
		h.link("#top", site.Brand, "class", "nav-brand")
		h.element("p", f.Blurb)
		h.open("ul", "class", "social")
		for _, s := range f.Social {
			h.open("li")
			h.link(s.Href, s.Name, "aria-label", s.Name)
			h.close("li")
		}
		h.close("ul")
		h.close("div")

		for _, col := range f.Columns {
			h.open("div", "class", "footer-column")
			h.element("h4", col.Title)
			h.open("ul")
			for _, l := range col.Links {
				h.open("li")
				h.link(l.Href, l.Name)
				h.close("li")
			}
			h.close("ul")
			h.close("div")
		}

		h.open("p", "class", "copyright")
		h.raw("&copy; ")
		h.int(year)
		h.text(" " + site.Brand + ". All rights reserved.")
		h.close("p")
		h.close("footer")
	})
}
