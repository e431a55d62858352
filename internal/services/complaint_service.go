package services

import (
	"errors"

	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type ComplaintService interface {
	CreateComplaint(authorID string, authorRole models.UserRole, schoolID string, req *dto.CreateComplaintRequest) (*models.Complaint, error)
	GetComplaint(id string) (*models.Complaint, error)
	ListBySchool(schoolID string, status models.ComplaintStatus, page, pageSize int) (*dto.PagedResponse, error)
	ListByAuthor(authorID string, page, pageSize int) (*dto.PagedResponse, error)
	Resolve(id string) error
}

type complaintService struct {
	complaintRepo repositories.ComplaintRepository
}

func NewComplaintService(complaintRepo repositories.ComplaintRepository) ComplaintService {
	return &complaintService{complaintRepo: complaintRepo}
}

func (s *complaintService) CreateComplaint(authorID string, authorRole models.UserRole, schoolID string, req *dto.CreateComplaintRequest) (*models.Complaint, error) {
	complaint := &models.Complaint{
		AuthorID:   authorID,
		AuthorRole: authorRole,
		SchoolID:   schoolID,
		Subject:    req.Subject,
		Body:       req.Body,
		Status:     models.ComplaintStatusOpen,
	}
	if err := s.complaintRepo.Create(complaint); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return complaint, nil
}

func (s *complaintService) GetComplaint(id string) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrComplaintNotFound) {
			return nil, apperrors.ErrComplaintNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return complaint, nil
}

func (s *complaintService) ListBySchool(schoolID string, status models.ComplaintStatus, page, pageSize int) (*dto.PagedResponse, error) {
	complaints, total, err := s.complaintRepo.FindBySchool(schoolID, status, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: complaints, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *complaintService) ListByAuthor(authorID string, page, pageSize int) (*dto.PagedResponse, error) {
	complaints, total, err := s.complaintRepo.FindByAuthor(authorID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: complaints, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *complaintService) Resolve(id string) error {
	if err := s.complaintRepo.UpdateStatus(id, models.ComplaintStatusResolved); err != nil {
		if errors.Is(err, repositories.ErrComplaintNotFound) {
			return apperrors.ErrComplaintNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
