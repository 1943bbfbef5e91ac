// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	stores, logger := newTestStores()
	return NewAuthService(stores, logger, 1)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{
		Username: "editor",
		Password: "correct horse battery",
		Role:     models.UserRoleReadWrite,
	})
	require.NoError(t, err)
	assert.Equal(t, "editor", user.Username)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	resp, err := svc.Login(&LoginRequest{Username: "editor", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
	assert.Equal(t, string(models.UserRoleReadWrite), claims.Role)

	session, err := svc.ValidateSession(claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "editor", session.Username)

	require.NoError(t, svc.Logout(claims.SessionID))
	_, err = svc.ValidateSession(claims.SessionID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRegisterRejectsDuplicatesAndUnknownRole(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{
		Username: "editor",
		Password: "correct horse battery",
		Role:     models.UserRoleReadOnly,
	})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{
		Username: "editor",
		Password: "another password",
		Role:     models.UserRoleReadOnly,
	})
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.Register(&RegisterRequest{
		Username: "other",
		Password: "another password",
		Role:     models.UserRole("SUPERUSER"),
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{
		Username: "editor",
		Password: "correct horse battery",
		Role:     models.UserRoleReadOnly,
	})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Username: "editor", Password: "wrong"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "whatever"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{
		Username: "editor",
		Password: "correct horse battery",
		Role:     models.UserRoleReadOnly,
	})
	require.NoError(t, err)

	err = svc.ChangePassword("editor", "wrong", "a new password")
	assert.True(t, apperrors.IsValidation(err))

	err = svc.ChangePassword("editor", "correct horse battery", "short")
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, svc.ChangePassword("editor", "correct horse battery", "a new password"))

	_, err = svc.Login(&LoginRequest{Username: "editor", Password: "a new password"})
	assert.NoError(t, err)
}
