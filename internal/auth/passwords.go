package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Work factors. Account creation (including federated first-login) uses the
// lower cost; explicit password changes and reset redemptions use the higher
// one. Never lower these without rehashing existing records.
const (
	CostSignup = 10
	CostReset  = 12
)

func HashPassword(plaintext string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches hash. A mismatch is
// (false, nil); an error means the stored hash is malformed and must be
// treated as an internal failure, not as bad credentials.
func VerifyPassword(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}

// RandomSecret returns a high-entropy hex string suitable as a local
// password for accounts created via federated login. It is hashed
// immediately and never disclosed.
func RandomSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
