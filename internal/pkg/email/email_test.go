package email

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendVerificationEmail_WithoutCredentialsIsNoop(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "localhost", Port: 25}, zerolog.Nop())
	svc.send = func(string, []byte) error {
		t.Fatal("send must not be called without credentials")
		return nil
	}

	assert.NoError(t, svc.SendVerificationEmail("a@acme.com", "Acme", "http://localhost/verify/tok"))
	assert.NoError(t, svc.SendPasswordResetEmail("a@acme.com", "Acme", "http://localhost/reset/tok"))
}

func TestSendVerificationEmail_BuildsMessage(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "u", Password: "p",
		FromName: "CV Portal", FromEmail: "noreply@example.com",
	}, zerolog.Nop())

	var gotTo string
	var gotMessage string
	svc.send = func(to string, message []byte) error {
		gotTo = to
		gotMessage = string(message)
		return nil
	}

	require.NoError(t, svc.SendVerificationEmail("a@acme.com", "Acme", "http://localhost:3000/verify/tok123"))

	assert.Equal(t, "a@acme.com", gotTo)
	assert.Contains(t, gotMessage, "From: CV Portal <noreply@example.com>\r\n")
	assert.Contains(t, gotMessage, "Subject: Verify your company account\r\n")
	assert.Contains(t, gotMessage, `href="http://localhost:3000/verify/tok123"`)
	assert.True(t, strings.Contains(gotMessage, "\r\n\r\n"))
}

func TestSendPasswordResetEmail_PropagatesFailure(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Username: "u", Password: "p"}, zerolog.Nop())
	svc.send = func(string, []byte) error { return errors.New("connection refused") }

	assert.Error(t, svc.SendPasswordResetEmail("a@acme.com", "Acme", "http://x/reset"))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
