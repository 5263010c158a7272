package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !VerifyPassword(hash, "secret123") {
		t.Fatalf("correct password should verify")
	}
	if VerifyPassword(hash, "secret124") {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	hash, err := HashPassword("secret123", 0)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost inspection failed: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("out-of-range cost should clamp to %d, got %d", bcrypt.DefaultCost, cost)
	}
}
