package services

import (
	"schoolhub_backend/internal/auth"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(userID string) (*dto.UserDTO, error)
	ChangePassword(userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		// Same answer for unknown email and wrong password.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	token, expiresAt, err := auth.GenerateToken(user.ID, string(user.Role), user.SchoolID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	userDTO := dto.ToUserDTO(user)
	return &dto.AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		User:        userDTO,
	}, nil
}

func (s *authService) GetProfile(userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	userDTO := dto.ToUserDTO(user)
	return &userDTO, nil
}

func (s *authService) ChangePassword(userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	if !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ValidationError(map[string]string{"new_password": err.Error()})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	return s.userRepo.UpdatePassword(userID, hash)
}
