package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
)

// TokenType distinguishes what a signed token may be used for
type TokenType string

const (
	// TokenTypeAccess grants access to protected routes
	TokenTypeAccess TokenType = "access"
	// TokenTypeVerification is embedded in email verification links
	TokenTypeVerification TokenType = "verify"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey            string
	AccessTokenExp       time.Duration
	VerificationTokenExp time.Duration
	TokenIssuer          string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Claims defines JWT token content
type Claims struct {
	CompanyID string    `json:"companyId"`
	Email     string    `json:"email,omitempty"`
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a short-lived bearer token for a company
func (s *JWTService) GenerateAccessToken(companyID uuid.UUID, email string) (string, int64, error) {
	token, err := s.sign(companyID, email, TokenTypeAccess, s.config.AccessTokenExp)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create access token: %w", err)
	}
	return token, int64(s.config.AccessTokenExp.Seconds()), nil
}

// GenerateVerificationToken issues the token sent in the email verification link
func (s *JWTService) GenerateVerificationToken(companyID uuid.UUID) (string, error) {
	token, err := s.sign(companyID, "", TokenTypeVerification, s.config.VerificationTokenExp)
	if err != nil {
		return "", fmt.Errorf("failed to create verification token: %w", err)
	}
	return token, nil
}

func (s *JWTService) sign(companyID uuid.UUID, email string, tokenType TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		CompanyID: companyID.String(),
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   companyID.String(),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// ValidateToken validates a token's signature and expiry and checks it was issued for tokenType
func (s *JWTService) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		return nil, apperrors.ErrTokenInvalid
	}
	if _, err := uuid.Parse(claims.CompanyID); err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", apperrors.ErrInvalidFormat
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperrors.ErrInvalidFormat
	}

	return strings.TrimSpace(token), nil
}
