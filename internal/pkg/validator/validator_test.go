package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
	Notes string `json:"notes"`
}

func TestValidateReportsPerFieldRules(t *testing.T) {
	details := Validate(signupForm{Name: "x", Email: "not-an-email"})
	require.Equal(t, map[string]string{
		"Name":  "min=2",
		"Email": "email",
	}, details)
}

func TestValidatePasses(t *testing.T) {
	require.Nil(t, Validate(signupForm{Name: "Ana", Email: "ana@example.com"}))
}

func TestDetailsIgnoresNonValidationErrors(t *testing.T) {
	require.Nil(t, Details(nil))
	require.Nil(t, Details(errors.New("malformed body")))
}
