// Package user provides account credential input handling.
package user

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/databasteknik25/maze/internal/platform/errors"
)

// MinCredentialLength is the minimum length, in characters, for usernames
// and passwords.
const MinCredentialLength = 3

var (
	// ErrUsernameTooShort indicates a trimmed username shorter than the minimum.
	ErrUsernameTooShort = apperrors.New(apperrors.CodeUsernameTooShort, "username must be at least 3 characters")
	// ErrPasswordTooShort indicates a password shorter than the minimum.
	ErrPasswordTooShort = apperrors.New(apperrors.CodePasswordTooShort, "password must be at least 3 characters")
)

// User represents a stored account identity record.
type User struct {
	ID        int64
	Username  string
	Salt      []byte
	Hash      []byte
	CreatedAt time.Time
}

// Credentials describes the raw input needed to create or verify an account.
type Credentials struct {
	Username string
	Password string
}

// NormalizeCredentials trims the username and validates both fields.
//
// Usernames keep their case; the store compares them exactly as entered.
// Passwords are never trimmed, only length-checked. Lengths are counted in
// characters so multibyte input is not over-counted.
func NormalizeCredentials(input Credentials) (Credentials, error) {
	input.Username = strings.TrimSpace(input.Username)
	if utf8.RuneCountInString(input.Username) < MinCredentialLength {
		return Credentials{}, ErrUsernameTooShort
	}
	if utf8.RuneCountInString(input.Password) < MinCredentialLength {
		return Credentials{}, ErrPasswordTooShort
	}
	return input, nil
}

// NormalizeUsername trims a username for lookup paths that skip password checks.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
