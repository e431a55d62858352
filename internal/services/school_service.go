package services

import (
	"errors"

	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type SchoolService interface {
	CreateSchool(req *dto.CreateSchoolRequest) (*models.School, error)
	GetSchool(id string) (*models.School, error)
	ListSchools(page, pageSize int) (*dto.PagedResponse, error)
	DeactivateSchool(id string) error
}

type schoolService struct {
	schoolRepo repositories.SchoolRepository
}

func NewSchoolService(schoolRepo repositories.SchoolRepository) SchoolService {
	return &schoolService{schoolRepo: schoolRepo}
}

func (s *schoolService) CreateSchool(req *dto.CreateSchoolRequest) (*models.School, error) {
	school := &models.School{
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
		IsActive: true,
	}
	if err := s.schoolRepo.Create(school); err != nil {
		if errors.Is(err, repositories.ErrSchoolDuplicate) {
			return nil, apperrors.NewConflictError("school code already in use")
		}
		return nil, apperrors.InternalError(err)
	}
	return school, nil
}

func (s *schoolService) GetSchool(id string) (*models.School, error) {
	school, err := s.schoolRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrSchoolNotFound) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return school, nil
}

func (s *schoolService) ListSchools(page, pageSize int) (*dto.PagedResponse, error) {
	schools, total, err := s.schoolRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: schools, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *schoolService) DeactivateSchool(id string) error {
	if err := s.schoolRepo.Deactivate(id); err != nil {
		if errors.Is(err, repositories.ErrSchoolNotFound) {
			return apperrors.ErrSchoolNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
