package password

import (
	"bytes"
	"testing"
)

func TestHashIsDeterministic(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}

	first := Hash("hunter2!", salt)
	second := Hash("hunter2!", salt)
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical digests for identical inputs")
	}
	if len(first) != DigestLength {
		t.Fatalf("digest length = %d, want %d", len(first), DigestLength)
	}
}

func TestHashDependsOnSalt(t *testing.T) {
	saltA, err := NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}
	saltB, err := NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}
	if bytes.Equal(saltA, saltB) {
		t.Fatal("expected distinct salts")
	}

	if bytes.Equal(Hash("hunter2!", saltA), Hash("hunter2!", saltB)) {
		t.Fatal("expected different digests under different salts")
	}
}

func TestNewSaltWidth(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}
	if len(salt) != SaltLength {
		t.Fatalf("salt length = %d, want %d", len(salt), SaltLength)
	}
}

func TestVerify(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}
	digest := Hash("correct horse", salt)

	if !Verify("correct horse", salt, digest) {
		t.Fatal("expected matching password to verify")
	}
	if Verify("wrong horse", salt, digest) {
		t.Fatal("expected mismatched password to fail")
	}
}
