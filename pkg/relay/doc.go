// Package relay delivers contact-form messages to the shop through an
// external service.
//
// Every driver implements Relay and makes exactly one attempt per Send:
//
//   - EmailJS posts to the EmailJS REST API using the service id, template
//     id and public key carried by the message.
//   - Postmark sends a templated email via github.com/mrz1836/postmark.
//   - SMTP renders the notification and sends it with gopkg.in/gomail.v2.
//   - Dev writes the rendered notification to a local directory.
//
// New selects a driver from Config. Instrument wraps any Relay with an
// observer for metrics and logging.
package relay
