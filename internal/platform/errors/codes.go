// Package errors provides structured, coded error handling for the store.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Account errors
	CodeUsernameTooShort Code = "ACCOUNT_USERNAME_TOO_SHORT"
	CodePasswordTooShort Code = "ACCOUNT_PASSWORD_TOO_SHORT"
	CodeUsernameTaken    Code = "ACCOUNT_USERNAME_TAKEN"
	CodeUserNotFound     Code = "ACCOUNT_USER_NOT_FOUND"
	CodeWrongPassword    Code = "ACCOUNT_WRONG_PASSWORD"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups codes into the failure classes callers branch on.
type Kind int

const (
	// KindInternal covers unexpected storage or programming failures.
	KindInternal Kind = iota
	// KindValidation covers input that fails structural constraints before
	// storage is touched.
	KindValidation
	// KindConflict covers uniqueness violations.
	KindConflict
	// KindNotFound covers lookups of absent entities.
	KindNotFound
	// KindAuth covers credential mismatches.
	KindAuth
)

// Kind maps a code to its failure class.
func (c Code) Kind() Kind {
	switch c {
	case CodeUsernameTooShort, CodePasswordTooShort:
		return KindValidation
	case CodeUsernameTaken:
		return KindConflict
	case CodeUserNotFound, CodeNotFound:
		return KindNotFound
	case CodeWrongPassword:
		return KindAuth
	default:
		return KindInternal
	}
}
