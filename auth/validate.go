package auth

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNameLength signals a name outside the 20-60 character window.
	ErrNameLength = errors.New("auth: name must be between 20 and 60 characters")
	// ErrAddressTooLong signals an address over 400 characters.
	ErrAddressTooLong = errors.New("auth: address must be at most 400 characters")
	// ErrInvalidEmail signals a malformed email address.
	ErrInvalidEmail = errors.New("auth: invalid email address")
	// ErrWeakPassword signals a password that fails the policy.
	ErrWeakPassword = errors.New("auth: password must be 8-16 characters with an uppercase letter and a special character")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// NormalizeEmail trims and lowercases an email, validating its shape.
// Emails are stored lowercased so lookups stay case-insensitive.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// ValidateName enforces the 20-60 character display-name rule.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := len([]rune(name)); n < 20 || n > 60 {
		return "", ErrNameLength
	}
	return name, nil
}

// ValidateAddress enforces the 400 character cap. Addresses are optional;
// an empty string is valid and normalizes to empty.
func ValidateAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if len([]rune(address)) > 400 {
		return "", ErrAddressTooLong
	}
	return address, nil
}

// ValidatePassword enforces the password policy: 8-16 characters, at least
// one uppercase letter and at least one special character.
func ValidatePassword(password string) error {
	if n := len(password); n < 8 || n > 16 {
		return ErrWeakPassword
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return ErrWeakPassword
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		return ErrWeakPassword
	}
	return nil
}
