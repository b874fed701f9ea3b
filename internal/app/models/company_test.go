package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCompany_BeforeSaveHashesChangedPassword(t *testing.T) {
	c := &Company{Name: "Acme", Email: "a@acme.com"}
	c.SetPassword("Secur3!ty")
	require.True(t, c.PasswordChanged())

	require.NoError(t, c.BeforeSave())

	assert.False(t, c.PasswordChanged())
	assert.NotEqual(t, "Secur3!ty", c.Password)
	cost, err := bcrypt.Cost([]byte(c.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
	assert.True(t, c.ComparePassword("Secur3!ty"))
	assert.False(t, c.ComparePassword("Secur3!tY"))
}

func TestCompany_BeforeSaveKeepsCleanHash(t *testing.T) {
	c := &Company{}
	c.SetPassword("Secur3!ty")
	require.NoError(t, c.BeforeSave())
	hash := c.Password

	require.NoError(t, c.BeforeSave())
	assert.Equal(t, hash, c.Password)
}

func TestCompany_ComparePasswordBeforeHashing(t *testing.T) {
	c := &Company{}
	c.SetPassword("Secur3!ty")
	assert.False(t, c.ComparePassword("Secur3!ty"))
}

func TestCompany_ValidatePasswordStrength(t *testing.T) {
	c := &Company{}
	assert.True(t, c.ValidatePasswordStrength("Secur3!ty"))
	assert.False(t, c.ValidatePasswordStrength("secur3!ty"))
	assert.False(t, c.ValidatePasswordStrength("Secure!ty"))
	assert.False(t, c.ValidatePasswordStrength("Secur3ity"))
	assert.False(t, c.ValidatePasswordStrength("S3!ty"))
}
