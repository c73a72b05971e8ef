package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = bcrypt.DefaultCost

const passwordMinLength = 8

// passwordSpecialChars is the accepted special-character set for the
// password policy.
const passwordSpecialChars = `!@#$%^&*()_+-=[]{}|;:'",.<>/?~` + "`"

// HashPassword hashes a plaintext password with bcrypt. The same cost is
// used for registration and password changes.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), defaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword checks a candidate against the stored hash. bcrypt's
// comparison is constant time.
func VerifyPassword(hash, candidate string) error {
	if strings.TrimSpace(hash) == "" {
		return errors.New("stored password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
}

// ValidatePasswordPolicy checks a candidate password against the policy:
// minimum length, then at least one uppercase letter, lowercase letter,
// digit, and special character. Rules are evaluated in that order and the
// first violated rule is reported by category.
func ValidatePasswordPolicy(password string) error {
	if len(password) < passwordMinLength {
		return &WeakPasswordError{Rule: PasswordRuleLength}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return &WeakPasswordError{Rule: PasswordRuleUppercase}
	case !hasLower:
		return &WeakPasswordError{Rule: PasswordRuleLowercase}
	case !hasDigit:
		return &WeakPasswordError{Rule: PasswordRuleDigit}
	case !hasSpecial:
		return &WeakPasswordError{Rule: PasswordRuleSpecial}
	}
	return nil
}
