package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrInvalid2FAToken    = errors.New("invalid 2FA token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Upload errors
	ErrFileType     = errors.New("images and PDFs only")
	ErrFileTooLarge = errors.New("file exceeds the maximum upload size")

	// Infrastructure errors
	ErrUnavailable = errors.New("service unavailable")
)

// Company Errors
var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyAlreadyExists = errors.New("company already exists")
)

// Student Errors
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Email verification errors
var (
	ErrEmailNotVerified  = errors.New("email not verified")
	ErrInvalidEmailToken = errors.New("invalid verification token")
)

// Password reset errors
var (
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
)

// FieldError is a single field-level validation message
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError wraps ErrValidationFailed together with every offending field.
func NewValidationError(fields ...FieldError) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// NewUnavailableError marks err as an unexpected infrastructure failure.
// The cause is kept for logging and never shown to callers.
func NewUnavailableError(err error) error {
	return &CustomError{
		Err:   ErrUnavailable,
		Cause: err,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Cause   error
	Message string
	Fields  []FieldError
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil && e.Err != nil {
		return e.Err.Error() + ": " + e.Cause.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// FieldErrors extracts the field-level messages carried by err, if any.
func FieldErrors(err error) []FieldError {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Fields
	}
	return nil
}

// PublicMessage returns the caller-facing message of a CustomError, or "" when err has none.
func PublicMessage(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Message
	}
	return ""
}
