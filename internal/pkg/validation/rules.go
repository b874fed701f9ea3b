package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Password min length
	PasswordMinLength = 8

	// PasswordSpecialChars is the fixed set of accepted special characters
	PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`
)

// CompiledPatterns caches compiled regex patterns for better performance.
// Go's regexp has no look-ahead, so the combined policy is one pattern per rule.
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	Uppercase *regexp.Regexp
	Digit     *regexp.Regexp
	Special   *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	Uppercase: regexp.MustCompile(`[A-Z]`),
	Digit:     regexp.MustCompile(`[0-9]`),
	Special:   regexp.MustCompile(`[` + regexp.QuoteMeta(PasswordSpecialChars) + `]`),
}

// Password policy messages
const (
	MsgPasswordLength      = "Password must be at least 8 characters long"
	MsgPasswordComposition = "Password must contain at least one uppercase letter, one number, and one special character"
)

// IsValidEmail reports whether email is well formed
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsStrongPassword reports whether password satisfies every rule of the password policy
func IsStrongPassword(password string) bool {
	return len(PasswordViolations(password)) == 0
}

// PasswordViolations lists the policy messages password fails, in a stable order.
func PasswordViolations(password string) []string {
	var violations []string
	if len(password) < PasswordMinLength {
		violations = append(violations, MsgPasswordLength)
	}
	if !CompiledPatterns.Uppercase.MatchString(password) ||
		!CompiledPatterns.Digit.MatchString(password) ||
		!CompiledPatterns.Special.MatchString(password) {
		violations = append(violations, MsgPasswordComposition)
	}
	return violations
}
