// Package sanitizer provides small, stateless string cleaning helpers and the
// Apply/Compose combinators for chaining them.
//
//	clean := sanitizer.Compose(sanitizer.RemoveAngleBrackets, sanitizer.Trim)
//	clean("  <b>Hi</b> ") // "bHi/b"
//
// PlainText is the pipeline used for free-text form fields.
package sanitizer
