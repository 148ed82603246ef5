// Package validator turns struct validation failures into the field-level
// detail maps the API error envelope carries.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// DTOs carry their rules in gin `binding` tags; reading the same tag
	// here keeps standalone checks in sync with request binding
	validate.SetTagName("binding")
}

// Validate checks a struct outside the gin binding path, for payloads that
// arrive over the websocket instead of an HTTP body. Returns nil when valid.
func Validate(v any) map[string]string {
	return Details(validate.Struct(v))
}

// Details extracts a field-to-rule map from a validation error. Anything
// else (malformed JSON, type mismatches) yields nil, so callers can pass a
// binding error straight through.
func Details(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[fe.Field()] = rule
	}
	return details
}
