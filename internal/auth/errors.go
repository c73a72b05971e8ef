package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned for every login failure the caller is
// allowed to see: unknown email, wrong password, or a current-password
// mismatch during a password change. The uniform error keeps account
// enumeration impossible.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountInactive marks a disabled account. Handlers must present it
// exactly like ErrInvalidCredentials.
var ErrAccountInactive = errors.New("account inactive")

// ErrPasswordMismatch is returned when the confirmation field differs from
// the new password.
var ErrPasswordMismatch = errors.New("password confirmation does not match")

// ErrMissingPasswordFields is returned when any password-change field is
// blank.
var ErrMissingPasswordFields = errors.New("current, new and confirm passwords are required")

// Token verification failures. Classified for logging and tests; all three
// collapse to a single unauthenticated outcome at the HTTP layer.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// Password policy rule categories reported by WeakPasswordError.
const (
	PasswordRuleLength    = "length"
	PasswordRuleUppercase = "uppercase"
	PasswordRuleLowercase = "lowercase"
	PasswordRuleDigit     = "digit"
	PasswordRuleSpecial   = "special"
)

// WeakPasswordError reports which policy rule a candidate password failed.
// Only the rule category is exposed, never the offending characters.
type WeakPasswordError struct {
	Rule string
}

func (e *WeakPasswordError) Error() string {
	switch e.Rule {
	case PasswordRuleLength:
		return fmt.Sprintf("password must be at least %d characters", passwordMinLength)
	case PasswordRuleUppercase:
		return "password must contain an uppercase letter"
	case PasswordRuleLowercase:
		return "password must contain a lowercase letter"
	case PasswordRuleDigit:
		return "password must contain a digit"
	case PasswordRuleSpecial:
		return "password must contain a special character"
	default:
		return "password does not meet the policy"
	}
}
