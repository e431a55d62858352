package services

import (
	"errors"

	"schoolhub_backend/internal/auth"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type UserService interface {
	CreateUser(schoolID string, req *dto.CreateUserRequest) (*dto.UserDTO, error)
	GetUser(id string) (*dto.UserDTO, error)
	ListUsers(schoolID string, criteria repositories.UserCriteria) (*dto.PagedResponse, error)
	UpdateUser(id string, req *dto.UpdateUserRequest) (*dto.UserDTO, error)
	DeleteUser(id string) error
	CountByRole(schoolID string) (map[string]int64, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	classRepo repositories.ClassRepository
}

func NewUserService(userRepo repositories.UserRepository, classRepo repositories.ClassRepository) UserService {
	return &userService{userRepo: userRepo, classRepo: classRepo}
}

func (s *userService) CreateUser(schoolID string, req *dto.CreateUserRequest) (*dto.UserDTO, error) {
	if !models.ValidUserRole(req.Role) {
		return nil, apperrors.ErrInvalidUserRole
	}

	// Only students belong to a class.
	if req.Role == models.UserRoleStudent {
		if req.ClassID == nil {
			return nil, apperrors.ValidationError(map[string]string{"class_id": "required for students"})
		}
		if _, err := s.classRepo.FindByID(*req.ClassID); err != nil {
			return nil, apperrors.ErrClassNotFound
		}
	} else {
		req.ClassID = nil
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Status:       models.UserStatusActive,
		SchoolID:     schoolID,
		ClassID:      req.ClassID,
		IsVerified:   true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserDuplicate) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	userDTO := dto.ToUserDTO(user)
	return &userDTO, nil
}

func (s *userService) GetUser(id string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	userDTO := dto.ToUserDTO(user)
	return &userDTO, nil
}

func (s *userService) ListUsers(schoolID string, criteria repositories.UserCriteria) (*dto.PagedResponse, error) {
	users, total, err := s.userRepo.FindBySchool(schoolID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		items = append(items, dto.ToUserDTO(&users[i]))
	}

	return &dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}, nil
}

func (s *userService) UpdateUser(id string, req *dto.UpdateUserRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.ClassID != nil {
		if user.Role != models.UserRoleStudent {
			return nil, apperrors.ValidationError(map[string]string{"class_id": "only students belong to a class"})
		}
		if _, err := s.classRepo.FindByID(*req.ClassID); err != nil {
			return nil, apperrors.ErrClassNotFound
		}
		user.ClassID = req.ClassID
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	userDTO := dto.ToUserDTO(user)
	return &userDTO, nil
}

// DeleteUser removes the account. Notifications addressed to the user go with
// it through the cascade.
func (s *userService) DeleteUser(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) CountByRole(schoolID string) (map[string]int64, error) {
	counts, err := s.userRepo.CountByRole(schoolID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return counts, nil
}
