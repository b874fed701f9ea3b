package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDetail_Builders(t *testing.T) {
	detail := NewErrorDetail(ErrorCode("VAL_001"), "Validation failed").
		WithField("email").
		WithSeverity(ErrorSeverityWarning).
		WithDetails([]string{"email is required"})

	resp := NewErrorResponse(detail)
	assert.False(t, resp.Success)
	assert.False(t, resp.Timestamp.IsZero())

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var body struct {
		Success bool                   `json:"success"`
		Error   map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VAL_001", body.Error["code"])
	assert.Equal(t, "email", body.Error["field"])
	assert.Equal(t, "WARNING", body.Error["severity"])
	assert.Equal(t, []interface{}{"email is required"}, body.Error["details"])
}

func TestNewErrorDetail_DefaultsToErrorSeverity(t *testing.T) {
	detail := NewErrorDetail(ErrorCode("RES_001"), "Route not found")
	assert.Equal(t, ErrorSeverityError, detail.Severity)
	assert.Empty(t, detail.Field)
	assert.Nil(t, detail.Details)
}
