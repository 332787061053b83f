// Package metrics defines the Prometheus collectors of the site and the HTTP
// middleware that feeds them. Collectors live on a private registry served by
// Handler, so tests can create as many Metrics values as they need.
package metrics
