package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/cvportal/internal/pkg/auth"
	"github.com/yigit/cvportal/internal/pkg/validation"
)

// Company defines the company account model based on the 'companies' table
type Company struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	Name                 string     `json:"name" db:"name" example:"Acme"`
	Email                string     `json:"email" db:"email" example:"hr@acme.com"`
	Password             string     `json:"-" db:"password"`
	TwoFactorSecret      *string    `json:"-" db:"two_factor_secret"`
	TwoFactorEnabled     bool       `json:"twoFactorEnabled" db:"two_factor_enabled"`
	IsVerified           bool       `json:"isVerified" db:"is_verified"`
	VerificationToken    *string    `json:"-" db:"verification_token"`
	ResetPasswordToken   *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`
	LastLogin            *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`

	passwordChanged bool
}

// SetPassword stores a plaintext password to be hashed by the next BeforeSave
func (c *Company) SetPassword(plain string) {
	c.Password = plain
	c.passwordChanged = true
}

// PasswordChanged reports whether Password holds an unhashed value
func (c *Company) PasswordChanged() bool {
	return c.passwordChanged
}

// BeforeSave hashes the password if it was modified since the last save
func (c *Company) BeforeSave() error {
	if !c.passwordChanged {
		return nil
	}
	hashed, err := auth.HashPassword(c.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	c.Password = hashed
	c.passwordChanged = false
	return nil
}

// ComparePassword reports whether candidate matches the stored hash
func (c *Company) ComparePassword(candidate string) bool {
	if c.passwordChanged {
		return false
	}
	return auth.CheckPassword(c.Password, candidate)
}

// ValidatePasswordStrength reports whether password satisfies the account password policy
func (c *Company) ValidatePasswordStrength(password string) bool {
	return validation.IsStrongPassword(password)
}
