package dto

// RegisterRequest represents a company registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Acme"`
	Email    string `json:"email" binding:"required,email" example:"a@acme.com"`
	Password string `json:"password" binding:"required" example:"Secur3!ty"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType" example:"Bearer"`
	ExpiresIn int64  `json:"expiresIn" example:"1800"`
}

// Setup2FAResponse carries the shared secret and the otpauth enrollment URI
type Setup2FAResponse struct {
	Secret string `json:"secret" example:"JBSWY3DPEHPK3PXP"`
	QRCode string `json:"qrCode" example:"otpauth://totp/Student%20CV%20System:a@acme.com?secret=JBSWY3DPEHPK3PXP"`
}

// Verify2FARequest carries a 6-digit time-based code
type Verify2FARequest struct {
	Token string `json:"token" binding:"required" example:"123456"`
}

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the password reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,strongpassword"`
}
