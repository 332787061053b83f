// Package validator provides rule-based validation.
//
// Rules are built from the value under test and evaluated together by Apply,
// which reports every failure at once:
//
//	err := validator.Apply(
//		validator.MinLen("name", name, 2),
//		validator.MinLen("message", message, 10),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve.Has("name") {
//		// ...
//	}
//
// Lengths are counted in Unicode code points.
package validator
