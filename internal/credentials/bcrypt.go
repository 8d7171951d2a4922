package credentials

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/filecms/internal/model"
)

var (
	_ model.PasswordVerifier = BcryptVerifier{}
	_ model.PasswordHasher   = BcryptVerifier{}
)

// BcryptVerifier checks and produces bcrypt hashes.
type BcryptVerifier struct {
	Cost int
}

// Verify reports whether plaintext matches hash.
func (b BcryptVerifier) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Hash returns a bcrypt hash of plaintext. A zero Cost means bcrypt.DefaultCost.
func (b BcryptVerifier) Hash(plaintext string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
