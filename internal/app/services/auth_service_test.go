package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/auth"
	"github.com/yigit/cvportal/internal/testhelpers"
)

const testBaseURL = "http://localhost:3000"

type authFixture struct {
	svc    *AuthService
	repo   *testhelpers.CompanyRepo
	mailer *testhelpers.RecordingMailer
	jwt    *auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	repo := testhelpers.NewCompanyRepo()
	mailer := &testhelpers.RecordingMailer{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:            "test-secret",
		AccessTokenExp:       30 * time.Minute,
		VerificationTokenExp: 24 * time.Hour,
		TokenIssuer:          "cvportal-test",
	})
	svc := NewAuthService(repo, jwtService, auth.NewTOTPService("Student CV System"), mailer,
		AuthConfig{BaseURL: testBaseURL, PasswordResetTTL: time.Hour}, zerolog.Nop())

	return &authFixture{svc: svc, repo: repo, mailer: mailer, jwt: jwtService}
}

func acmeRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{Name: "Acme", Email: "a@acme.com", Password: "Secur3!ty"}
}

// registerAndVerify registers Acme and follows the emailed verification link
func (f *authFixture) registerAndVerify(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, acmeRegistration())
	require.NoError(t, err)

	_, err = f.svc.VerifyEmail(ctx, f.verificationToken(t))
	require.NoError(t, err)
}

func (f *authFixture) verificationToken(t *testing.T) string {
	t.Helper()
	link := f.mailer.Last().LinkURL
	require.True(t, strings.HasPrefix(link, testBaseURL+"/verify/"), link)
	return strings.TrimPrefix(link, testBaseURL+"/verify/")
}

func (f *authFixture) identity(t *testing.T) auth.Identity {
	t.Helper()
	company, err := f.repo.GetByEmail(context.Background(), "a@acme.com")
	require.NoError(t, err)
	return auth.Identity{CompanyID: company.ID, Email: company.Email}
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(context.Background(), acmeRegistration())
	require.NoError(t, err)
	assert.Equal(t, MsgRegistered, resp.Message)

	company, err := f.repo.GetByEmail(context.Background(), "a@acme.com")
	require.NoError(t, err)
	assert.False(t, company.IsVerified)
	assert.NotEqual(t, "Secur3!ty", company.Password)
	assert.True(t, company.ComparePassword("Secur3!ty"))
	require.NotNil(t, company.VerificationToken)

	mail := f.mailer.Last()
	assert.Equal(t, "verification", mail.Kind)
	assert.Equal(t, "a@acme.com", mail.To)
	assert.Equal(t, *company.VerificationToken, f.verificationToken(t))
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), &dto.RegisterRequest{Name: " Acme ", Email: " A@Acme.com", Password: "Secur3!ty"})
	require.NoError(t, err)

	company, err := f.repo.GetByEmail(context.Background(), "a@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
}

func TestAuthService_Register_Conflict(t *testing.T) {
	tests := []struct {
		name   string
		second *dto.RegisterRequest
	}{
		{"same payload", acmeRegistration()},
		{"same email", &dto.RegisterRequest{Name: "Other", Email: "a@acme.com", Password: "Secur3!ty"}},
		{"same name", &dto.RegisterRequest{Name: "Acme", Email: "b@other.com", Password: "Secur3!ty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			_, err := f.svc.Register(context.Background(), acmeRegistration())
			require.NoError(t, err)

			_, err = f.svc.Register(context.Background(), tt.second)
			assert.ErrorIs(t, err, apperrors.ErrConflict)
			assert.Equal(t, 1, f.repo.Count())
			assert.Len(t, f.mailer.Sent, 1)
		})
	}
}

func TestAuthService_Register_ReportsEveryViolation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), &dto.RegisterRequest{Name: "", Email: "not-an-email", Password: "short"})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var fields []string
	for _, fe := range apperrors.FieldErrors(err) {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"name", "email", "password", "password"}, fields)
	assert.Zero(t, f.repo.Count())
}

func TestAuthService_Register_MailFailureIsUnavailable(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.Err = errors.New("smtp down")

	_, err := f.svc.Register(context.Background(), acmeRegistration())
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, acmeRegistration())
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "a@acme.com", Password: "Secur3!ty"})
	assert.ErrorIs(t, err, apperrors.ErrEmailNotVerified, "unverified accounts cannot log in")

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "a@acme.com", Password: "Wrong1!pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "wrong password is checked first")

	_, err = f.svc.VerifyEmail(ctx, f.verificationToken(t))
	require.NoError(t, err)

	tokens, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "a@acme.com", Password: "Secur3!ty"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int64(1800), tokens.ExpiresIn)

	claims, err := f.jwt.ValidateToken(tokens.Token, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, f.identity(t).CompanyID.String(), claims.CompanyID)

	company, err := f.repo.GetByEmail(ctx, "a@acme.com")
	require.NoError(t, err)
	assert.NotNil(t, company.LastLogin)
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.registerAndVerify(t)

	_, wrongPassword := f.svc.Login(ctx, &dto.LoginRequest{Email: "a@acme.com", Password: "Wrong1!pass"})
	_, unknownEmail := f.svc.Login(ctx, &dto.LoginRequest{Email: "nobody@acme.com", Password: "Secur3!ty"})

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, acmeRegistration())
	require.NoError(t, err)
	token := f.verificationToken(t)

	_, err = f.svc.VerifyEmail(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmailToken)

	resp, err := f.svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, MsgEmailVerified, resp.Message)

	company, err := f.repo.GetByEmail(ctx, "a@acme.com")
	require.NoError(t, err)
	assert.True(t, company.IsVerified)
	assert.Nil(t, company.VerificationToken)

	_, err = f.svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmailToken, "tokens are single use")
}

func TestAuthService_TwoFactor(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.registerAndVerify(t)
	identity := f.identity(t)

	setup, err := f.svc.Setup2FA(ctx, identity)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.True(t, strings.HasPrefix(setup.QRCode, "otpauth://totp/"))

	company, err := f.repo.GetByID(ctx, identity.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, company.TwoFactorSecret)
	assert.Equal(t, setup.Secret, *company.TwoFactorSecret)
	assert.False(t, company.TwoFactorEnabled)

	_, err = f.svc.Verify2FA(ctx, identity, "000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalid2FAToken)

	code, err := totp.GenerateCode(setup.Secret, time.Now().UTC())
	require.NoError(t, err)
	resp, err := f.svc.Verify2FA(ctx, identity, code)
	require.NoError(t, err)
	assert.Equal(t, Msg2FAVerified, resp.Message)

	company, err = f.repo.GetByID(ctx, identity.CompanyID)
	require.NoError(t, err)
	assert.True(t, company.TwoFactorEnabled)
}

func TestAuthService_Verify2FA_WithoutSetup(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAndVerify(t)

	_, err := f.svc.Verify2FA(context.Background(), f.identity(t), "123456")
	assert.ErrorIs(t, err, apperrors.ErrInvalid2FAToken)
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.registerAndVerify(t)
	f.svc.newResetToken = func() (string, error) { return "reset-token", nil }

	resp, err := f.svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "a@acme.com"})
	require.NoError(t, err)
	assert.Equal(t, MsgPasswordResetSent, resp.Message)
	assert.Equal(t, testBaseURL+"/reset-password/reset-token", f.mailer.Last().LinkURL)

	_, err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: "reset-token", NewPassword: "weak"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: "reset-token", NewPassword: "N3w!Passw0rd"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "a@acme.com", Password: "Secur3!ty"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "a@acme.com", Password: "N3w!Passw0rd"})
	assert.NoError(t, err)

	_, err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: "reset-token", NewPassword: "An0ther!pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
}

func TestAuthService_PasswordReset_Expired(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.registerAndVerify(t)
	f.svc.newResetToken = func() (string, error) { return "reset-token", nil }

	_, err := f.svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "a@acme.com"})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: "reset-token", NewPassword: "N3w!Passw0rd"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "nobody@acme.com"})
	require.NoError(t, err)
	assert.Equal(t, MsgPasswordResetSent, resp.Message)
	assert.Empty(t, f.mailer.Sent)
}
