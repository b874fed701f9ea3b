package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2024-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)

	_, err = ParseDate(" ")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := ""
	got, err = ParseOptionalDate(&blank)
	require.NoError(t, err)
	assert.Nil(t, got)

	value := "2023-12-01"
	got, err = ParseOptionalDate(&value)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.December, got.Month())
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, ParseDuration("30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
}
