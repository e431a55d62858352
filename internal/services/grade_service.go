package services

import (
	"errors"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type GradeService interface {
	CreateGrade(teacherID, schoolID string, req *dto.CreateGradeRequest) (*models.Grade, error)
	GetGrade(id string) (*models.Grade, error)
	ListByStudent(studentID string, criteria repositories.GradeCriteria) (*dto.PagedResponse, error)
	ListBySubject(subjectID string, criteria repositories.GradeCriteria) (*dto.PagedResponse, error)
	DeleteGrade(id string) error
}

type gradeService struct {
	gradeRepo    repositories.GradeRepository
	subjectRepo  repositories.SubjectRepository
	userRepo     repositories.UserRepository
	notification NotificationService
}

func NewGradeService(
	gradeRepo repositories.GradeRepository,
	subjectRepo repositories.SubjectRepository,
	userRepo repositories.UserRepository,
	notification NotificationService,
) GradeService {
	return &gradeService{
		gradeRepo:    gradeRepo,
		subjectRepo:  subjectRepo,
		userRepo:     userRepo,
		notification: notification,
	}
}

func (s *gradeService) CreateGrade(teacherID, schoolID string, req *dto.CreateGradeRequest) (*models.Grade, error) {
	student, err := s.userRepo.FindByID(req.StudentID)
	if err != nil || student.Role != models.UserRoleStudent {
		return nil, apperrors.ValidationError(map[string]string{"student_id": "not a student"})
	}

	subject, err := s.subjectRepo.FindByID(req.SubjectID)
	if err != nil {
		return nil, apperrors.ErrSubjectNotFound
	}

	if req.MarksObtained > req.MarksTotal {
		return nil, apperrors.ValidationError(map[string]string{"marks_obtained": "exceeds marks_total"})
	}

	grade := &models.Grade{
		StudentID:     req.StudentID,
		SubjectID:     req.SubjectID,
		SchoolID:      schoolID,
		ExamType:      req.ExamType,
		MarksObtained: req.MarksObtained,
		MarksTotal:    req.MarksTotal,
		Remarks:       req.Remarks,
		GradedByID:    teacherID,
	}
	if err := s.gradeRepo.Create(grade); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notification.NotifyGradeUpdate(student.ID, subject.Name, grade.MarksObtained, grade.MarksTotal, grade.ID); err != nil {
		logger.WithError(err).Warn("grade notification failed", "grade_id", grade.ID)
	}

	return grade, nil
}

func (s *gradeService) GetGrade(id string) (*models.Grade, error) {
	grade, err := s.gradeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrGradeNotFound) {
			return nil, apperrors.ErrGradeNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return grade, nil
}

func (s *gradeService) ListByStudent(studentID string, criteria repositories.GradeCriteria) (*dto.PagedResponse, error) {
	grades, total, err := s.gradeRepo.FindByStudent(studentID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: grades, Total: total, Page: criteria.Page, PageSize: criteria.PageSize}, nil
}

func (s *gradeService) ListBySubject(subjectID string, criteria repositories.GradeCriteria) (*dto.PagedResponse, error) {
	grades, total, err := s.gradeRepo.FindBySubject(subjectID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: grades, Total: total, Page: criteria.Page, PageSize: criteria.PageSize}, nil
}

func (s *gradeService) DeleteGrade(id string) error {
	if err := s.gradeRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrGradeNotFound) {
			return apperrors.ErrGradeNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
