// Package validator builds declarative validation from small Rule values.
//
// Each rule helper returns a Rule holding a Check func and translation-ready
// error metadata. Apply evaluates a set of rules and aggregates the failures
// into ValidationErrors, which implements error:
//
//	err := validator.Apply(
//	    validator.Required("author", form.Author),
//	    validator.MaxLen("content", form.Content, 5000),
//	    validator.InListString("dir", dir, []string{"asc", "desc"}),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//	    // errs.Map() -> {"author": ["is required"]}
//	}
//
// The package holds no state and is safe for concurrent use.
package validator
