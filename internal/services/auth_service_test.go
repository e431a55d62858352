package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internal/auth"
	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthService) {
	t.Helper()

	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	userRepo := newFakeUserRepo(
		&models.User{
			BaseModel:    models.BaseModel{ID: "user-1"},
			Name:         "Aida",
			Email:        "aida@example.com",
			PasswordHash: hash,
			Role:         models.UserRoleStudent,
			Status:       models.UserStatusActive,
			SchoolID:     "school-1",
		},
		&models.User{
			BaseModel:    models.BaseModel{ID: "user-2"},
			Name:         "Bek",
			Email:        "bek@example.com",
			PasswordHash: hash,
			Role:         models.UserRoleTeacher,
			Status:       models.UserStatusSuspended,
			SchoolID:     "school-1",
		},
	)
	return userRepo, NewAuthService(userRepo)
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(&dto.LoginRequest{Email: "aida@example.com", Password: "wrong"})

	// Indistinguishable from an unknown email.
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_SuspendedUser(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(&dto.LoginRequest{Email: "bek@example.com", Password: "correct-horse"})

	assert.ErrorIs(t, err, apperrors.ErrUserSuspended)
}

func TestLogin_Success(t *testing.T) {
	_, svc := newAuthFixture(t)

	resp, err := svc.Login(&dto.LoginRequest{Email: "aida@example.com", Password: "correct-horse"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, "user-1", resp.User.ID)

	claims, err := auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, string(models.UserRoleStudent), claims.Role)
	assert.Equal(t, "school-1", claims.SchoolID)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	err := svc.ChangePassword("user-1", &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "new-password-1",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestChangePassword_RejectsShortPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	err := svc.ChangePassword("user-1", &dto.ChangePasswordRequest{
		OldPassword: "correct-horse",
		NewPassword: "short",
	})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestChangePassword_Success(t *testing.T) {
	userRepo, svc := newAuthFixture(t)

	err := svc.ChangePassword("user-1", &dto.ChangePasswordRequest{
		OldPassword: "correct-horse",
		NewPassword: "brand-new-password",
	})

	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("brand-new-password", userRepo.users["user-1"].PasswordHash))
}
