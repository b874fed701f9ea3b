package auth

import (
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
)

// TOTPEnrollment is a freshly generated shared secret and its enrollment URI
type TOTPEnrollment struct {
	Secret string
	URL    string
}

// TOTPService generates and checks time-based one-time codes (30s step, RFC 6238)
type TOTPService struct {
	issuer string
	now    func() time.Time
}

// NewTOTPService creates a TOTP service that labels secrets with issuer
func NewTOTPService(issuer string) *TOTPService {
	return &TOTPService{issuer: issuer, now: time.Now}
}

// Generate creates a base32 secret for accountName
func (s *TOTPService) Generate(accountName string) (*TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return &TOTPEnrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// Validate checks a 6-digit code against secret, allowing one step of clock skew
func (s *TOTPService) Validate(code, secret string) bool {
	if secret == "" {
		return false
	}
	valid, err := totp.ValidateCustom(code, secret, s.now().UTC(), totp.ValidateOpts{
		Period: 30,
		Skew:   1,
		Digits: 6,
	})
	return err == nil && valid
}
