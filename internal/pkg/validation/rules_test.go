package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"meets every rule", "Secur3!ty", true},
		{"special char from set", "Abcdefg1{", true},
		{"too short", "Se3!ty", false},
		{"no uppercase", "secur3!ty", false},
		{"no digit", "Secure!ty", false},
		{"no special char", "Secur3ity", false},
		{"special char outside set", "Secur3ity~", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestPasswordViolations_ReportsEveryRule(t *testing.T) {
	violations := PasswordViolations("abc")
	assert.Equal(t, []string{MsgPasswordLength, MsgPasswordComposition}, violations)

	assert.Empty(t, PasswordViolations("Secur3!ty"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@acme.com"))
	assert.True(t, IsValidEmail("Hiring.Team@Acme.co.uk"))
	assert.False(t, IsValidEmail("acme.com"))
	assert.False(t, IsValidEmail("a@acme"))
}
