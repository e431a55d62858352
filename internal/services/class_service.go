package services

import (
	"errors"

	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type ClassService interface {
	CreateClass(schoolID string, req *dto.CreateClassRequest) (*models.Class, error)
	GetClass(id string) (*models.Class, error)
	ListClasses(schoolID string, page, pageSize int) (*dto.PagedResponse, error)
	UpdateClass(id string, req *dto.UpdateClassRequest) (*models.Class, error)
	DeleteClass(id string) error
	GetRoster(classID string) ([]dto.UserDTO, error)
	GradeAverages(classID string) ([]repositories.SubjectAverage, error)
}

type classService struct {
	classRepo repositories.ClassRepository
	userRepo  repositories.UserRepository
}

func NewClassService(classRepo repositories.ClassRepository, userRepo repositories.UserRepository) ClassService {
	return &classService{classRepo: classRepo, userRepo: userRepo}
}

func (s *classService) CreateClass(schoolID string, req *dto.CreateClassRequest) (*models.Class, error) {
	class := &models.Class{
		Name:       req.Name,
		GradeLevel: req.GradeLevel,
		Section:    req.Section,
		SchoolID:   schoolID,
	}
	if err := s.classRepo.Create(class); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return class, nil
}

func (s *classService) GetClass(id string) (*models.Class, error) {
	class, err := s.classRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrClassNotFound) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return class, nil
}

func (s *classService) ListClasses(schoolID string, page, pageSize int) (*dto.PagedResponse, error) {
	classes, total, err := s.classRepo.FindBySchool(schoolID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: classes, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *classService) UpdateClass(id string, req *dto.UpdateClassRequest) (*models.Class, error) {
	class, err := s.GetClass(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.GradeLevel != nil {
		class.GradeLevel = *req.GradeLevel
	}
	if req.Section != nil {
		class.Section = *req.Section
	}

	if err := s.classRepo.Update(class); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return class, nil
}

func (s *classService) DeleteClass(id string) error {
	if err := s.classRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrClassNotFound) {
			return apperrors.ErrClassNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *classService) GetRoster(classID string) ([]dto.UserDTO, error) {
	students, err := s.userRepo.FindByClass(classID, models.UserRoleStudent)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	roster := make([]dto.UserDTO, 0, len(students))
	for i := range students {
		roster = append(roster, dto.ToUserDTO(&students[i]))
	}
	return roster, nil
}

func (s *classService) GradeAverages(classID string) ([]repositories.SubjectAverage, error) {
	averages, err := s.classRepo.GradeAverages(classID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return averages, nil
}
