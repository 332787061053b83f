// Package contact implements the contact form pipeline of the site.
//
// A Controller owns one visitor's form: it buffers the input, enforces a
// cooldown between successful submissions, strips markup characters,
// checks minimum lengths and hands the message to a relay.Relay on its own
// goroutine. The panel moves through idle, submitting, submitted and failed;
// a success panel reverts to the form after a short delay.
//
//	reg, err := contact.NewRegistry(cfg, cooldown, relay)
//	c, err := reg.Get(visitorID)
//	if err := c.Submit(ctx, contact.FormInput{Name: "Jo", Email: "a@b.com", Message: "Hello there!"}); err != nil {
//		if serr, ok := contact.AsSubmissionError(err); ok {
//			show(serr.Message)
//		}
//	}
//
// Submission errors carry a Kind and a message safe to display. Match them
// with errors.Is against ErrRateLimited, ErrInvalidInput, ErrConfigMissing
// and ErrDeliveryFailed.
package contact
