// Package validate holds the pure input validation rules for registration
// and password changes. The functions never error: malformed input simply
// fails the check.
package validate

import (
	"strings"
	"unicode"
)

const (
	emailSuffix    = "@gmail.com"
	specialChars   = `!@#$%^&*(),.?":{}|<>`
	minPasswordLen = 6
)

// IsValidEmail reports whether the address ends with the accepted provider
// domain, compared case-insensitively. No other format checking is done.
func IsValidEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), emailSuffix)
}

// IsValidPassword reports whether the password satisfies all strength rules:
// at least 6 characters, one lowercase letter, one uppercase letter, one
// digit and one special character.
func IsValidPassword(password string) bool {
	if len(password) < minPasswordLen {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
		if lower && upper && digit && special {
			return true
		}
	}
	return lower && upper && digit && special
}
