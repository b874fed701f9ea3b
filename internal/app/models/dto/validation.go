package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/validation"
)

// FieldErrorsFromBinding converts a gin binding error into field-level messages.
// Malformed bodies are reported against the pseudo field "body".
func FieldErrorsFromBinding(err error) []apperrors.FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []apperrors.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String()),
		}}
	}

	return []apperrors.FieldError{{Field: "body", Message: "Invalid request body"}}
}

// NewBindingError wraps a binding failure as a validation error
func NewBindingError(err error) error {
	return apperrors.NewValidationError(FieldErrorsFromBinding(err)...)
}

// PasswordFieldErrors lists every password policy rule the value violates
func PasswordFieldErrors(field, password string) []apperrors.FieldError {
	violations := validation.PasswordViolations(password)
	fields := make([]apperrors.FieldError, 0, len(violations))
	for _, msg := range violations {
		fields = append(fields, apperrors.FieldError{Field: field, Message: msg})
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please include a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "lte":
		return fe.Field() + " must be less than or equal to " + fe.Param()
	case "len":
		return fe.Field() + " must be exactly " + fe.Param() + " characters long"
	case "numeric":
		return fe.Field() + " must contain digits only"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "strongpassword":
		return validation.MsgPasswordComposition
	case "uuid":
		return fe.Field() + " must be a valid identifier"
	default:
		return fe.Field() + " validation failed: " + fe.Tag()
	}
}
