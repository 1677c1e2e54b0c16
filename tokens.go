package webauth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Default token lengths, in characters over the 62-char alphabet.
// 32 characters carry just under 191 bits of randomness.
const (
	ConfirmationTokenLength = 32
	RememberTokenLength     = 32
	ResetTokenLength        = 32
)

// ResetTokenWindow is how long a password-reset token stays valid after it
// was issued. Expiry is computed by timestamp comparison at check time; no
// background process prunes stale tokens.
const ResetTokenWindow = 30 * time.Minute

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateToken produces a fixed-length opaque string over an alphanumeric
// alphabet, sourced from crypto/rand. Tokens are compared by exact equality
// and are never parsed for structure.
func GenerateToken(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		out[i] = tokenAlphabet[n.Int64()]
	}
	return string(out), nil
}

// MustGenerateToken is GenerateToken for call sites that cannot surface an
// error. It panics only if the system's secure random source is broken.
func MustGenerateToken(length int) string {
	token, err := GenerateToken(length)
	if err != nil {
		panic(err)
	}
	return token
}
