// Package auth holds the credential and token primitives shared by every
// login variant: bcrypt hashing, JWT issue/parse and the request identity
// carried in context.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashMarker prefixes every bcrypt hash ($2a$, $2b$, $2y$). A stored
// credential without it is treated as legacy plaintext.
const HashMarker = "$2"

// bcrypt only looks at the first 72 bytes. Records hashed by the previous
// (bcryptjs) backend were truncated silently, so we truncate the same way
// on both hash and verify.
const maxPasswordBytes = 72

var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	// Hash returns a tagged one-way hash of plaintext.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. Malformed hashes and
	// empty input yield false.
	Verify(plaintext, hash string) bool

	// IsHashed reports whether a stored credential carries the hash marker.
	IsHashed(stored string) bool
}

// BcryptHasher implements PasswordHasher with a fixed bcrypt cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify relies on bcrypt's constant-time comparison of the derived keys.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if plaintext == "" || !h.IsHashed(hash) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext)) == nil
}

func (h *BcryptHasher) IsHashed(stored string) bool {
	return strings.HasPrefix(stored, HashMarker)
}

// Cost reports the work factor recorded in a stored hash, or 0 when the
// value is not a parsable bcrypt hash.
func Cost(hash string) int {
	c, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0
	}
	return c
}

func truncate(s string) []byte {
	b := []byte(s)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
