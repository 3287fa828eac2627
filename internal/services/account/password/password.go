// Package password derives and verifies salted credential digests.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters. Changing any of these invalidates stored
// digests, so they are fixed for the lifetime of the schema.
const (
	// SaltLength is the fixed salt width in bytes.
	SaltLength = 16
	// Iterations is the PBKDF2 round count.
	Iterations = 100_000
	// DigestLength is the derived digest width in bytes.
	DigestLength = 32
)

// NewSalt returns a fresh salt from the crypto random source.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Hash derives the digest for a password and salt.
//
// The derivation is PBKDF2-HMAC-SHA256, deterministic for a given
// (password, salt) pair and deliberately expensive to brute-force.
func Hash(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, DigestLength, sha256.New)
}

// Verify reports whether a password matches a stored salt and digest.
func Verify(password string, salt, digest []byte) bool {
	derived := Hash(password, salt)
	return subtle.ConstantTimeCompare(derived, digest) == 1
}
