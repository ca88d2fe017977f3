package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)
	assert.NotEmpty(t, hash)
}

func TestHashPassword_Empty(t *testing.T) {
	svc := NewPasswordService()

	_, err := svc.HashPassword("")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestVerifyPassword(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.HashPassword("pw123")
	require.NoError(t, err)

	assert.NoError(t, svc.VerifyPassword(hash, "pw123"))
	assert.Error(t, svc.VerifyPassword(hash, "wrong"))
}

func TestNewPasswordServiceWithCost_ClampsInvalid(t *testing.T) {
	// Out-of-range costs fall back to the default instead of failing
	// every subsequent hash call.
	svc := NewPasswordServiceWithCost(99)
	hash, err := svc.HashPassword("pw123")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyPassword(hash, "pw123"))
}

func TestIsValidPassword(t *testing.T) {
	assert.NoError(t, IsValidPassword("pw123"))
	assert.Error(t, IsValidPassword("pw"))
	assert.Error(t, IsValidPassword(string(make([]byte, 80))))
}
