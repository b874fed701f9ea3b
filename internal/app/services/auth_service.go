package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/repositories"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/auth"
	"github.com/yigit/cvportal/internal/pkg/email"
	"github.com/yigit/cvportal/internal/pkg/validation"
)

// Acknowledgement messages
const (
	MsgRegistered          = "Registration successful. Please check your email to verify your account."
	MsgEmailVerified       = "Email verified successfully"
	Msg2FAVerified         = "2FA verified successfully"
	MsgPasswordResetSent   = "If an account with that email exists, a password reset link has been sent."
	MsgPasswordResetDone   = "Password has been reset successfully"
	MsgCompanyExists       = "Company already exists"
	verificationPathPrefix = "/verify/"
	resetPathPrefix        = "/reset-password/"
)

// AuthConfig holds the settings the auth flows need at runtime
type AuthConfig struct {
	BaseURL          string
	PasswordResetTTL time.Duration
}

// AuthService handles company registration, login, email verification,
// two-factor enrollment and password reset.
type AuthService struct {
	companyRepo repositories.ICompanyRepository
	jwtService  *auth.JWTService
	totpService *auth.TOTPService
	mailer      email.EmailService
	config      AuthConfig
	logger      zerolog.Logger

	now           func() time.Time
	newResetToken func() (string, error)
}

// NewAuthService creates a new AuthService
func NewAuthService(
	companyRepo repositories.ICompanyRepository,
	jwtService *auth.JWTService,
	totpService *auth.TOTPService,
	mailer email.EmailService,
	config AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if config.PasswordResetTTL <= 0 {
		config.PasswordResetTTL = time.Hour
	}
	return &AuthService{
		companyRepo:   companyRepo,
		jwtService:    jwtService,
		totpService:   totpService,
		mailer:        mailer,
		config:        config,
		logger:        logger,
		now:           time.Now,
		newResetToken: email.GenerateToken,
	}
}

// Register creates an unverified company and emails it a verification link
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MessageResponse, error) {
	name := strings.TrimSpace(req.Name)
	emailAddr := normalizeEmail(req.Email)

	var fields []apperrors.FieldError
	if name == "" {
		fields = append(fields, apperrors.FieldError{Field: "name", Message: "Company name is required"})
	}
	if !validation.IsValidEmail(emailAddr) {
		fields = append(fields, apperrors.FieldError{Field: "email", Message: "Please include a valid email"})
	}
	fields = append(fields, dto.PasswordFieldErrors("password", req.Password)...)
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields...)
	}

	exists, err := s.companyRepo.ExistsByEmailOrName(ctx, emailAddr, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing company: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError(MsgCompanyExists)
	}

	company := &models.Company{
		ID:    uuid.New(),
		Name:  name,
		Email: emailAddr,
	}
	company.SetPassword(req.Password)

	token, err := s.jwtService.GenerateVerificationToken(company.ID)
	if err != nil {
		return nil, err
	}
	company.VerificationToken = &token

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	link := s.link(verificationPathPrefix, token)
	if err := s.mailer.SendVerificationEmail(company.Email, company.Name, link); err != nil {
		return nil, apperrors.NewUnavailableError(fmt.Errorf("failed to send verification email: %w", err))
	}

	s.logger.Info().Str("companyID", company.ID.String()).Msg("Company registered, verification email sent")
	return &dto.MessageResponse{Message: MsgRegistered}, nil
}

// Login authenticates a verified company and issues an access token.
// The password is checked before the verification flag so a wrong password
// never reveals whether the account exists or is verified.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	company, err := s.companyRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	if !company.ComparePassword(req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !company.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(company.ID, company.Email)
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.UpdateLastLogin(ctx, company.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
	}, nil
}

// VerifyEmail consumes a verification token and marks its company verified
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*dto.MessageResponse, error) {
	company, err := s.companyRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			return nil, apperrors.ErrInvalidEmailToken
		}
		return nil, fmt.Errorf("failed to load company by verification token: %w", err)
	}

	claims, err := s.jwtService.ValidateToken(token, auth.TokenTypeVerification)
	if err != nil || claims.CompanyID != company.ID.String() {
		return nil, apperrors.ErrInvalidEmailToken
	}

	company.IsVerified = true
	company.VerificationToken = nil
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to mark company verified: %w", err)
	}

	return &dto.MessageResponse{Message: MsgEmailVerified}, nil
}

// Setup2FA generates and stores a fresh TOTP secret for the authenticated company.
// Two-factor stays disabled until a code from the new secret is verified.
func (s *AuthService) Setup2FA(ctx context.Context, identity auth.Identity) (*dto.Setup2FAResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, identity.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	enrollment, err := s.totpService.Generate(company.Email)
	if err != nil {
		return nil, err
	}

	company.TwoFactorSecret = &enrollment.Secret
	company.TwoFactorEnabled = false
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to store 2FA secret: %w", err)
	}

	return &dto.Setup2FAResponse{
		Secret: enrollment.Secret,
		QRCode: enrollment.URL,
	}, nil
}

// Verify2FA checks a TOTP code against the stored secret and enables two-factor on success
func (s *AuthService) Verify2FA(ctx context.Context, identity auth.Identity, code string) (*dto.MessageResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, identity.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	if company.TwoFactorSecret == nil || !s.totpService.Validate(code, *company.TwoFactorSecret) {
		return nil, apperrors.ErrInvalid2FAToken
	}

	if !company.TwoFactorEnabled {
		company.TwoFactorEnabled = true
		if err := s.companyRepo.Update(ctx, company); err != nil {
			return nil, fmt.Errorf("failed to enable 2FA: %w", err)
		}
	}

	return &dto.MessageResponse{Message: Msg2FAVerified}, nil
}

// ForgotPassword emails a single-use reset link. The answer is the same whether or not the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	ack := &dto.MessageResponse{Message: MsgPasswordResetSent}

	company, err := s.companyRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			s.logger.Debug().Msg("Password reset requested for unknown email")
			return ack, nil
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	token, err := s.newResetToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().UTC().Add(s.config.PasswordResetTTL)
	company.ResetPasswordToken = &token
	company.ResetPasswordExpires = &expires

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(company.Email, company.Name, s.link(resetPathPrefix, token)); err != nil {
		return nil, apperrors.NewUnavailableError(fmt.Errorf("failed to send password reset email: %w", err))
	}
	return ack, nil
}

// ResetPassword replaces the password of the company owning an unexpired reset token
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	if fields := dto.PasswordFieldErrors("newPassword", req.NewPassword); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields...)
	}

	company, err := s.companyRepo.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			return nil, apperrors.ErrInvalidPasswordResetToken
		}
		return nil, fmt.Errorf("failed to load company by reset token: %w", err)
	}
	if company.ResetPasswordExpires == nil || !s.now().Before(*company.ResetPasswordExpires) {
		return nil, apperrors.ErrInvalidPasswordResetToken
	}

	company.SetPassword(req.NewPassword)
	company.ResetPasswordToken = nil
	company.ResetPasswordExpires = nil
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	return &dto.MessageResponse{Message: MsgPasswordResetDone}, nil
}

func (s *AuthService) link(prefix, token string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + prefix + token
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
