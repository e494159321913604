// Package schema validates trace configurations.
//
// Validation collects every failing field instead of stopping at the first one,
// so a caller can report all problems of a request in a single round trip:
//
//	if err := schema.ValidateConfig(cfg); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        log.Println(e)
//	    }
//	}
//
// Each failure is a *ValidationError naming the offending field by its JSON key.
package schema
