package webauth_test

import (
	"testing"

	wa "github.com/tlegrave/webauth"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	// MinCost keeps the test fast
	hasher := &wa.BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := hasher.Hash("Secr3t!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "Secr3t!" {
		t.Fatal("Hash returned the cleartext password")
	}

	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{"correct password", "Secr3t!", true},
		{"wrong password", "wrong", false},
		{"empty password", "", false},
		{"prefix of password", "Secr3t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasher.Verify(tt.password, hash); got != tt.expected {
				t.Errorf("Verify(%q) = %v, expected %v", tt.password, got, tt.expected)
			}
		})
	}
}

func TestBcryptHasherSaltsEveryHash(t *testing.T) {
	hasher := &wa.BcryptHasher{Cost: bcrypt.MinCost}

	first, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("Two hashes of the same password are identical; salting is broken")
	}
	if !hasher.Verify("password123", first) || !hasher.Verify("password123", second) {
		t.Error("Both salted hashes should verify against the original password")
	}
}
