package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// EmailPattern matches a plain local@domain.tld address.
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// PasswordMinLength is a plain character count, not an entropy measure.
	PasswordMinLength = 8
)

var emailRegexp = regexp.MustCompile(EmailPattern)

// IsValidEmail reports whether the value looks like an email address.
func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// RegisterForm holds the registration input as submitted.
type RegisterForm struct {
	Name     string
	Email    string
	Password string
}

// Validate returns every problem with the form at once.
func (f *RegisterForm) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "Name is required.")
	}
	if !IsValidEmail(f.Email) {
		errs = append(errs, "Valid email is required.")
	}
	if len(f.Password) < PasswordMinLength {
		errs = append(errs, "Password must be at least 8 characters.")
	}
	return errs
}

// LoginForm holds the login input as submitted.
type LoginForm struct {
	Email    string
	Password string
}

// Validate returns every format problem with the form at once. Credential
// correctness is not a format problem and is checked elsewhere.
func (f *LoginForm) Validate() []string {
	var errs []string
	if !IsValidEmail(f.Email) {
		errs = append(errs, "Valid email is required.")
	}
	if f.Password == "" {
		errs = append(errs, "Password is required.")
	}
	return errs
}
