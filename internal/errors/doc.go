// Package errors provides structured error values for spark.
//
// Every error carries a code that maps to a registered template with a
// category, a short message and a longer explanation:
//
//	err := errors.New(errors.CodeKindRequired).
//	    WithDetailf("got %T", arg).
//	    WithSuggestion("pass the Kind returned by component.Define")
//
// Contract violations (a broken producer of content trees or component kinds)
// are raised with Raise, which panics with the *Error. They are not meant to
// be recovered; they point at a bug in the calling code.
//
// # Categories
//
//   - contract: misuse of the rendering API
//   - runtime: failures while keeping output up to date
//   - config: invalid spark.json
//   - cli: command line failures
package errors
