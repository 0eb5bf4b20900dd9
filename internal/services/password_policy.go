package services

import (
	"errors"
	"unicode"
)

const MinAdminPasswordLength = 8

var ErrWeakPassword = errors.New("weak password")

// ValidatePasswordStrength applies the admin password rule: at least
// MinAdminPasswordLength runes mixing upper case, lower case and digits.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < MinAdminPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		hasUpper = hasUpper || unicode.IsUpper(char)
		hasLower = hasLower || unicode.IsLower(char)
		hasDigit = hasDigit || unicode.IsDigit(char)
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
