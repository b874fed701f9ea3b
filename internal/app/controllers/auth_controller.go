// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/services"
	"github.com/yigit/cvportal/internal/middleware"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles company registration
// @Summary Register a company
// @Description Creates an unverified company account and emails a verification link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Company registration information"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or company already exists"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.HandleAPIError(ctx, registrationBindingError(err, req.Password))
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}

// registrationBindingError lists the password policy violations next to the binding failures
// so a single response carries every problem with the payload
func registrationBindingError(err error, password string) error {
	fields := dto.FieldErrorsFromBinding(err)
	for _, f := range fields {
		if f.Field == "password" {
			return apperrors.NewValidationError(fields...)
		}
	}
	fields = append(fields, dto.PasswordFieldErrors("password", password)...)
	return apperrors.NewValidationError(fields...)
}

// Login handles company login
// @Summary Company login
// @Description Authenticates a verified company and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Email not verified"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	tokens, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Login rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tokens, "Login successful"))
}

// VerifyEmail consumes the token from a verification link
// @Summary Verify company email
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid token"
// @Router /auth/verify/{token} [get]
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	resp, err := c.authService.VerifyEmail(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}

// Setup2FA generates a TOTP secret for the authenticated company
// @Summary Start two-factor enrollment
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.Setup2FAResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/setup-2fa [post]
func (c *AuthController) Setup2FA(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	resp, err := c.authService.Setup2FA(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Verify2FA validates a TOTP code and enables two-factor on success
// @Summary Verify a two-factor code
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.Verify2FARequest true "Six digit code"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid 2FA token"
// @Router /auth/verify-2fa [post]
func (c *AuthController) Verify2FA(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.Verify2FARequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	resp, err := c.authService.Verify2FA(ctx.Request.Context(), identity, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}

// ForgotPassword emails a password reset link
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	resp, err := c.authService.ForgotPassword(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}

// ResetPassword sets a new password using a reset token
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	resp, err := c.authService.ResetPassword(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}
