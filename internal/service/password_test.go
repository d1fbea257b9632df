package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "secret123" {
		t.Fatalf("expected digest to differ from plaintext")
	}
	if !h.Verify("secret123", digest) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify("wrong-pass", digest) {
		t.Fatalf("expected wrong password to fail")
	}

	again, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if again == digest {
		t.Fatalf("expected salted digests to differ")
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("secret123", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed digest to return false")
	}
	if h.Verify("secret123", "") {
		t.Fatalf("expected empty digest to return false")
	}
}

func TestNewBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
