package auth

import (
	"errors"
	"fmt"

	"github.com/avolkovs/artefactreg/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt at the given cost.
// bcrypt generates a fresh random salt per call, so two hashes of the same
// password differ.
func HashPassword(plaintext string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
// A mismatch returns common.ErrorUnauthorized; any other failure (e.g. a
// corrupted hash) is surfaced as a distinct wrapped error.
func CheckPassword(plaintext, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("bcrypt compare: %w", err)
	}
	return nil
}
