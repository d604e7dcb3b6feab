package security

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain text password with bcrypt. The salt is
// embedded in the output, so two calls on the same input differ.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
// A malformed hash is just a mismatch, never a panic.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePasswordPolicy returns one message per unmet requirement:
// at least 8 characters, one uppercase, one lowercase, one digit.
func ValidatePasswordPolicy(plain string) []string {
	var problems []string

	if len(plain) < 8 {
		problems = append(problems, "must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool

	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		problems = append(problems, "must contain at least one uppercase letter")
	}

	if !hasLower {
		problems = append(problems, "must contain at least one lowercase letter")
	}

	if !hasDigit {
		problems = append(problems, "must contain at least one digit")
	}

	return problems
}
