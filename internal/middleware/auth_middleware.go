package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/auth"
)

const identityContextKey = "identity"

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth middleware for JWT token validation.
// On success the company identity is available through CurrentIdentity and
// auth.IdentityFromContext on the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, auth.TokenTypeAccess)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		identity, err := identityFromClaims(claims)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").WithDetails("Invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(identityContextKey, identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// CurrentIdentity returns the company identity attached by JWTAuth
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	if value, exists := c.Get(identityContextKey); exists {
		if identity, ok := value.(auth.Identity); ok {
			return identity, true
		}
	}
	return auth.IdentityFromContext(c.Request.Context())
}

func identityFromClaims(claims *auth.Claims) (auth.Identity, error) {
	id, err := uuid.Parse(claims.CompanyID)
	if err != nil {
		return auth.Identity{}, apperrors.ErrTokenInvalid
	}
	return auth.Identity{CompanyID: id, Email: claims.Email}, nil
}
