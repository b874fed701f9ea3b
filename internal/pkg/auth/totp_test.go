package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPService_GenerateAndValidate(t *testing.T) {
	svc := NewTOTPService("Student CV System")

	enrollment, err := svc.Generate("a@acme.com")
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.True(t, strings.HasPrefix(enrollment.URL, "otpauth://totp/"))
	assert.Contains(t, enrollment.URL, "issuer=Student")

	code, err := totp.GenerateCode(enrollment.Secret, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, svc.Validate(code, enrollment.Secret))
}

func TestTOTPService_RejectsWrongCode(t *testing.T) {
	svc := NewTOTPService("Student CV System")
	enrollment, err := svc.Generate("a@acme.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now().Add(-10*time.Minute).UTC())
	require.NoError(t, err)

	assert.False(t, svc.Validate(code, enrollment.Secret))
	assert.False(t, svc.Validate("abcdef", enrollment.Secret))
	assert.False(t, svc.Validate("123456", ""))
}

func TestTOTPService_RejectsMalformedCode(t *testing.T) {
	svc := NewTOTPService("Student CV System")
	enrollment, err := svc.Generate("a@acme.com")
	require.NoError(t, err)

	for _, code := range []string{"", "12345", "1234567", "123 456"} {
		assert.False(t, svc.Validate(code, enrollment.Secret), code)
	}
}
