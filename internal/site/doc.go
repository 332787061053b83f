// Package site serves the single-page website and its contact endpoints.
//
// Every page request is tied to a visitor through the signed ppsp_vid
// cookie. The visitor's contact.Controller, taken from a contact.Registry,
// decides what the contact panel shows.
//
// Routes:
//
//	GET  /                   full page
//	GET  /contact            contact panel (DataStar patch) or full page
//	POST /contact            submit; DataStar gets an event stream, forms get the page
//	GET  /qr/directions.png  QR code of the map link
//	GET  /static/*           stylesheet
//	GET  /healthz, /readyz   probes
//	GET  /metrics            Prometheus metrics
package site
