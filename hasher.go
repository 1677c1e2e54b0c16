package webauth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher provides one-way salted password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted hash of the password.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the hash. Verification
	// runs in time independent of where a mismatch occurs.
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher using bcrypt with the default cost.
type BcryptHasher struct {
	// Cost overrides bcrypt.DefaultCost when > 0
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

func (h *BcryptHasher) cost() int {
	if h.Cost > 0 {
		return h.Cost
	}
	return bcrypt.DefaultCost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
