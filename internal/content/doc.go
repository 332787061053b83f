// Package content holds the static copy of the site: section texts,
// inventory categories, services, testimonials, contact details and footer
// links. It is embedded from site.yaml and parsed with gopkg.in/yaml.v3.
package content
