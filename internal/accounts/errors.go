package accounts

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError reports a configuration file that could not be parsed or
// does not match the account schema.
type ValidationError struct {
	Path  string
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is not a correct SDK configuration file: %v", e.Path, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Details flattens schema violations into "location: message" lines. Parse
// failures yield a single line.
func (e *ValidationError) Details() []string {
	var ve *jsonschema.ValidationError
	if !errors.As(e.Cause, &ve) {
		return []string{e.Cause.Error()}
	}

	var out []string
	var walk func(v *jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		if len(v.Causes) == 0 {
			loc := v.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+v.Message)
			return
		}
		for _, c := range v.Causes {
			walk(c)
		}
	}
	walk(ve)

	return out
}

// CredentialError reports an ENV: indirected API key that is unset or out of
// the accepted length range.
type CredentialError struct {
	Account  string
	Variable string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s: Environment variable %q does not contain a valid API key", e.Account, e.Variable)
}
