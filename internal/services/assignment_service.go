package services

import (
	"errors"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type AssignmentService interface {
	CreateAssignment(teacherID, schoolID string, req *dto.CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignment(id string) (*models.Assignment, error)
	ListByClass(classID string, criteria repositories.AssignmentCriteria) (*dto.PagedResponse, error)
	ListByTeacher(teacherID string, criteria repositories.AssignmentCriteria) (*dto.PagedResponse, error)
	DeleteAssignment(id string) error
}

type assignmentService struct {
	assignmentRepo repositories.AssignmentRepository
	subjectRepo    repositories.SubjectRepository
	userRepo       repositories.UserRepository
	notification   NotificationService
}

func NewAssignmentService(
	assignmentRepo repositories.AssignmentRepository,
	subjectRepo repositories.SubjectRepository,
	userRepo repositories.UserRepository,
	notification NotificationService,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		subjectRepo:    subjectRepo,
		userRepo:       userRepo,
		notification:   notification,
	}
}

// CreateAssignment persists the assignment and fans a new_assignment
// notification out to the class roster.
func (s *assignmentService) CreateAssignment(teacherID, schoolID string, req *dto.CreateAssignmentRequest) (*models.Assignment, error) {
	subject, err := s.subjectRepo.FindByID(req.SubjectID)
	if err != nil {
		return nil, apperrors.ErrSubjectNotFound
	}

	assignment := &models.Assignment{
		Title:         req.Title,
		Description:   req.Description,
		SubjectID:     subject.ID,
		ClassID:       subject.ClassID,
		TeacherID:     teacherID,
		SchoolID:      schoolID,
		DueDate:       req.DueDate,
		MaxMarks:      req.MaxMarks,
		AttachmentURL: req.AttachmentURL,
	}
	if err := s.assignmentRepo.Create(assignment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	students, err := s.userRepo.FindByClass(subject.ClassID, models.UserRoleStudent)
	if err != nil {
		logger.WithError(err).Warn("roster lookup failed, skipping assignment notifications", "assignment_id", assignment.ID)
		return assignment, nil
	}

	recipientIDs := make([]string, 0, len(students))
	for i := range students {
		recipientIDs = append(recipientIDs, students[i].ID)
	}

	if len(recipientIDs) > 0 {
		if err := s.notification.NotifyNewAssignment(recipientIDs, assignment.Title, subject.Name, assignment.ID); err != nil {
			logger.WithError(err).Warn("assignment notifications failed", "assignment_id", assignment.ID)
		}
	}

	return assignment, nil
}

func (s *assignmentService) GetAssignment(id string) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return assignment, nil
}

func (s *assignmentService) ListByClass(classID string, criteria repositories.AssignmentCriteria) (*dto.PagedResponse, error) {
	assignments, total, err := s.assignmentRepo.FindByClass(classID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: assignments, Total: total, Page: criteria.Page, PageSize: criteria.PageSize}, nil
}

func (s *assignmentService) ListByTeacher(teacherID string, criteria repositories.AssignmentCriteria) (*dto.PagedResponse, error) {
	assignments, total, err := s.assignmentRepo.FindByTeacher(teacherID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: assignments, Total: total, Page: criteria.Page, PageSize: criteria.PageSize}, nil
}

func (s *assignmentService) DeleteAssignment(id string) error {
	if err := s.assignmentRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return apperrors.ErrAssignmentNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
