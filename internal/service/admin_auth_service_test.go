package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthForTest(t *testing.T) AdminAuthService {
	t.Helper()
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecretqwerty123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	return NewAdminAuthService("admin", string(hash), zap.NewNop())
}

func TestAdminLogin_Success(t *testing.T) {
	auth := newAuthForTest(t)

	token, err := auth.Login("admin", "supersecretqwerty123")

	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
}

func TestAdminLogin_WrongPassword_Failed(t *testing.T) {
	auth := newAuthForTest(t)

	token, err := auth.Login("admin", "wrong")

	require.Empty(t, token)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin_WrongUsername_Failed(t *testing.T) {
	auth := newAuthForTest(t)

	token, err := auth.Login("root", "supersecretqwerty123")

	require.Empty(t, token)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Garbage_Failed(t *testing.T) {
	auth := newAuthForTest(t)

	claims, err := auth.ValidateToken("not.a.token")

	require.Nil(t, claims)
	require.Error(t, err)
}

func TestValidateToken_WrongSecret_Failed(t *testing.T) {
	auth := newAuthForTest(t)

	token, err := auth.Login("admin", "supersecretqwerty123")
	require.NoError(t, err)

	t.Setenv("ADMIN_JWT_SECRET", "another-secret")

	claims, err := auth.ValidateToken(token)
	require.Nil(t, claims)
	require.Error(t, err)
}
