package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/logger"
)

// HandleAPIError writes the error envelope matching err.
// Unmapped errors are logged with their cause and answered with an opaque 500.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := mapError(err)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func mapError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithSeverity(dto.ErrorSeverityWarning)
		if fields := apperrors.FieldErrors(err); len(fields) > 0 {
			detail = detail.WithDetails(fields)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeConflict, publicOr(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrFileType):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeFileType, publicOr(err, "Error: Images and PDFs only!")).WithField("file")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, publicOr(err, "Bad request"))
	case errors.Is(err, apperrors.ErrInvalidEmailToken):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrInvalidPasswordResetToken):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Password reset token is invalid or has expired")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrInvalid2FAToken):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalid2FAToken, "Invalid 2FA token")
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeEmailNotVerified, "Please verify your email first")
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")
	case errors.Is(err, apperrors.ErrCompanyNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Company not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, publicOr(err, "Resource not found"))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Server error")
	}
}

func publicOr(err error, fallback string) string {
	if msg := apperrors.PublicMessage(err); msg != "" {
		return msg
	}
	return fallback
}
