package services

import (
	"errors"

	"github.com/lib/pq"

	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type SubjectService interface {
	CreateSubject(schoolID string, req *dto.CreateSubjectRequest) (*models.Subject, error)
	GetSubject(id string) (*models.Subject, error)
	ListSubjects(schoolID string, page, pageSize int) (*dto.PagedResponse, error)
	ListByClass(classID string) ([]models.Subject, error)
	ListByTeacher(teacherID string) ([]models.Subject, error)
	AssignTeacher(subjectID, teacherID string) error
	DeleteSubject(id string) error
	AssignmentCounts(schoolID string) ([]repositories.SubjectAssignmentCount, error)
}

type subjectService struct {
	subjectRepo repositories.SubjectRepository
	classRepo   repositories.ClassRepository
	userRepo    repositories.UserRepository
}

func NewSubjectService(subjectRepo repositories.SubjectRepository, classRepo repositories.ClassRepository, userRepo repositories.UserRepository) SubjectService {
	return &subjectService{subjectRepo: subjectRepo, classRepo: classRepo, userRepo: userRepo}
}

func (s *subjectService) CreateSubject(schoolID string, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	if _, err := s.classRepo.FindByID(req.ClassID); err != nil {
		return nil, apperrors.ErrClassNotFound
	}

	if req.TeacherID != "" {
		teacher, err := s.userRepo.FindByID(req.TeacherID)
		if err != nil {
			return nil, apperrors.ErrUserNotFound
		}
		if teacher.Role != models.UserRoleTeacher {
			return nil, apperrors.ValidationError(map[string]string{"teacher_id": "user is not a teacher"})
		}
	}

	subject := &models.Subject{
		Name:     req.Name,
		Code:     req.Code,
		ClassID:  req.ClassID,
		SchoolID: schoolID,
		Sessions: req.Sessions,
		Days:     pq.StringArray(req.Days),
	}
	if req.TeacherID != "" {
		subject.TeacherID = &req.TeacherID
	}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return subject, nil
}

func (s *subjectService) GetSubject(id string) (*models.Subject, error) {
	subject, err := s.subjectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrSubjectNotFound) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return subject, nil
}

func (s *subjectService) ListSubjects(schoolID string, page, pageSize int) (*dto.PagedResponse, error) {
	subjects, total, err := s.subjectRepo.FindBySchool(schoolID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: subjects, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *subjectService) ListByClass(classID string) ([]models.Subject, error) {
	subjects, err := s.subjectRepo.FindByClass(classID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return subjects, nil
}

func (s *subjectService) ListByTeacher(teacherID string) ([]models.Subject, error) {
	subjects, err := s.subjectRepo.FindByTeacher(teacherID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return subjects, nil
}

func (s *subjectService) AssignTeacher(subjectID, teacherID string) error {
	teacher, err := s.userRepo.FindByID(teacherID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}
	if teacher.Role != models.UserRoleTeacher {
		return apperrors.ValidationError(map[string]string{"teacher_id": "user is not a teacher"})
	}

	if err := s.subjectRepo.AssignTeacher(subjectID, teacherID); err != nil {
		if errors.Is(err, repositories.ErrSubjectNotFound) {
			return apperrors.ErrSubjectNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subjectService) DeleteSubject(id string) error {
	if err := s.subjectRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrSubjectNotFound) {
			return apperrors.ErrSubjectNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subjectService) AssignmentCounts(schoolID string) ([]repositories.SubjectAssignmentCount, error) {
	counts, err := s.subjectRepo.AssignmentCounts(schoolID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return counts, nil
}
