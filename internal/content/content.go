package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidContent = errors.New("content.errors.invalid")

	//go:embed site.yaml
	siteYAML []byte

	defaultOnce sync.Once
	defaultSite *Site
	defaultErr  error
)

type Link struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

type Hero struct {
	Status     string `yaml:"status"`
	Title      string `yaml:"title"`
	Subtitle   string `yaml:"subtitle"`
	CTA        string `yaml:"cta"`
	Background string `yaml:"background"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type About struct {
	Heading  string `yaml:"heading"`
	Lead     string `yaml:"lead"`
	Body     string `yaml:"body"`
	Image    string `yaml:"image"`
	ImageAlt string `yaml:"image_alt"`
	Stats    []Stat `yaml:"stats"`
}

type Category struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Items       []string `yaml:"items"`
}

type Inventory struct {
	Heading    string     `yaml:"heading"`
	Intro      string     `yaml:"intro"`
	Footnote   string     `yaml:"footnote"`
	Categories []Category `yaml:"categories"`
}

type Service struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Outcome     string `yaml:"outcome"`
}

type Wholesale struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	CTA   string `yaml:"cta"`
}

type Services struct {
	Heading   string    `yaml:"heading"`
	Intro     string    `yaml:"intro"`
	Items     []Service `yaml:"items"`
	Wholesale Wholesale `yaml:"wholesale"`
}

type Testimonial struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Company string `yaml:"company"`
	Rating  int    `yaml:"rating"`
	Content string `yaml:"content"`
}

type Testimonials struct {
	Heading       string        `yaml:"heading"`
	RotateSeconds int           `yaml:"rotate_seconds"`
	Items         []Testimonial `yaml:"items"`
}

// Contact is the static part of the contact section.
type Contact struct {
	Heading      string   `yaml:"heading"`
	Intro        string   `yaml:"intro"`
	Address      string   `yaml:"address"`
	Phone        string   `yaml:"phone"`
	Email        string   `yaml:"email"`
	Hours        []string `yaml:"hours"`
	MapURL       string   `yaml:"map_url"`
	SuccessTitle string   `yaml:"success_title"`
	SuccessBody  string   `yaml:"success_body"`
	SubmitLabel  string   `yaml:"submit_label"`
	SendingLabel string   `yaml:"sending_label"`
}

type FooterColumn struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

type Footer struct {
	Blurb   string         `yaml:"blurb"`
	Columns []FooterColumn `yaml:"columns"`
	Social  []Link         `yaml:"social"`
}

// Site is every static text and link of the one-page site.
type Site struct {
	Brand        string       `yaml:"brand"`
	Tagline      string       `yaml:"tagline"`
	Navigation   []Link       `yaml:"navigation"`
	Hero         Hero         `yaml:"hero"`
	About        About        `yaml:"about"`
	Inventory    Inventory    `yaml:"inventory"`
	Services     Services     `yaml:"services"`
	Testimonials Testimonials `yaml:"testimonials"`
	Contact      Contact      `yaml:"contact"`
	Footer       Footer       `yaml:"footer"`
}

// Parse decodes and validates site content. Unknown keys are rejected.
func Parse(data []byte) (*Site, error) {
	var site Site
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil {
		return nil, errors.Join(ErrInvalidContent, err)
	}
	if err := site.validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Default returns the embedded site content, parsed once.
func Default() (*Site, error) {
	defaultOnce.Do(func() {
		defaultSite, defaultErr = Parse(siteYAML)
	})
	return defaultSite, defaultErr
}

// MustDefault is Default for process start-up.
func MustDefault() *Site {
	site, err := Default()
	if err != nil {
		panic(err)
	}
	return site
}

func (s *Site) validate() error {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	check("brand", s.Brand)
	check("contact.address", s.Contact.Address)
	check("contact.phone", s.Contact.Phone)
	check("contact.email", s.Contact.Email)
	check("contact.map_url", s.Contact.MapURL)
	check("contact.submit_label", s.Contact.SubmitLabel)
	check("contact.sending_label", s.Contact.SendingLabel)

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrInvalidContent, missing)
	}
	for _, t := range s.Testimonials.Items {
		if t.Rating < 0 || t.Rating > 5 {
			return fmt.Errorf("%w: rating %d of %q out of range", ErrInvalidContent, t.Rating, t.Name)
		}
	}
	return nil
}
