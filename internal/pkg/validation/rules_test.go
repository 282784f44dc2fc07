package validation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emre/coursehub/internal/pkg/validation"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"ada@x.com", "first.last@sub.example.org", "a+b@domain.io"}
	for _, email := range valid {
		require.True(t, validation.IsValidEmail(email), email)
	}

	invalid := []string{"", "plain", "@no-local.com", "no-domain@", "spaces in@x.com", "no-tld@domain"}
	for _, email := range invalid {
		require.False(t, validation.IsValidEmail(email), email)
	}
}

func TestRegisterForm_AccumulatesAllErrors(t *testing.T) {
	form := validation.RegisterForm{Name: "  ", Email: "not-an-email", Password: "short"}
	errs := form.Validate()
	require.Len(t, errs, 3)
	require.Contains(t, errs, "Name is required.")
	require.Contains(t, errs, "Valid email is required.")
	require.Contains(t, errs, "Password must be at least 8 characters.")
}

func TestRegisterForm_Valid(t *testing.T) {
	form := validation.RegisterForm{Name: "Ada", Email: "ada@x.com", Password: "password1"}
	require.Empty(t, form.Validate())
}

func TestLoginForm(t *testing.T) {
	t.Run("accumulates all format errors", func(t *testing.T) {
		form := validation.LoginForm{Email: "nope", Password: ""}
		errs := form.Validate()
		require.Len(t, errs, 2)
	})

	t.Run("valid form", func(t *testing.T) {
		form := validation.LoginForm{Email: "ada@x.com", Password: "anything"}
		require.Empty(t, form.Validate())
	})
}
