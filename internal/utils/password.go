package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Password bounds shared by /v1/auth/register and the create-admin command.
// bcrypt only reads the first 72 bytes, so longer secrets are refused
// rather than silently truncated.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
)

var ErrPasswordLength = errors.New("password must be 8 to 72 bytes")

// HashPassword hashes an account password at the configured BCRYPT_COST.
func HashPassword(plain string, cost int) (string, error) {
	if len(plain) < MinPasswordLen || len(plain) > MaxPasswordLen {
		return "", ErrPasswordLength
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.  A
// malformed hash counts as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
