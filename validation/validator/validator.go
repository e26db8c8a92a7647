// Package validator holds request validation helpers shared by the
// service layer and the gin binding engine.
package validator

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsEmail reports whether the value looks like an email address.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsStrongPassword reports whether the password satisfies the account
// policy: at least 8 characters with one upper, one lower and one digit.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
