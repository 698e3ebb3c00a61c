package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfee-backend/internal/security"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	mgr := security.NewTokenManager("test-secret", time.Hour)

	token, err := mgr.GenerateAccessToken("admin@school.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@school.test", claims.Email)
	assert.Equal(t, "admin@school.test", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	mgr := security.NewTokenManager("test-secret", -time.Minute)

	token, err := mgr.GenerateAccessToken("admin@school.test")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	mgr := security.NewTokenManager("test-secret", time.Hour)
	other := security.NewTokenManager("different-secret", time.Hour)

	token, err := mgr.GenerateAccessToken("admin@school.test")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	mgr := security.NewTokenManager("test-secret", time.Hour)
	_, err := mgr.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
