// Package validator provides rule-based input validation with per-field
// error collection.
//
// A Rule pairs a check with the error to report when it fails. Apply
// runs rules in order and returns every failure at once, so a handler
// can render all field problems in a single response:
//
//	err := validator.Apply(
//		validator.RequiredString("name", p.Name),
//		validator.MaxLenString("name", p.Name, 200),
//		validator.InListString("severity", p.Severity, []string{"Low", "Medium", "High", "Critical"}),
//	)
//	if validator.IsValidationError(err) {
//		for _, e := range validator.ExtractValidationErrors(err) {
//			// e.Field, e.Message
//		}
//	}
//
// Apply returns nil when every rule passes, and a ValidationErrors
// value otherwise. ValidationErrors implements error, so it travels
// through ordinary error returns and is recovered with errors.As (or
// the ExtractValidationErrors helper).
package validator
