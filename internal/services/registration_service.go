package services

import (
	"errors"

	"schoolhub_backend/internal/auth"
	"schoolhub_backend/internal/email"
	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

// RegistrationService covers the two public application flows: teacher
// subject requests and student enrollments. Admins decide both; outcomes go
// back by notification and email.
type RegistrationService interface {
	SubmitTeacherRequest(req *dto.SubmitTeacherRequest) (*models.TeacherRequest, error)
	ListTeacherRequests(schoolID string, status models.RequestStatus, page, pageSize int) (*dto.PagedResponse, error)
	DecideTeacherRequest(adminID, requestID string, decision *dto.DecideRequest) error

	SubmitStudentRegistration(req *dto.SubmitStudentRegistration) (*models.StudentRegistration, error)
	ListStudentRegistrations(schoolID string, status models.RequestStatus, page, pageSize int) (*dto.PagedResponse, error)
	DecideStudentRegistration(adminID, registrationID string, decision *dto.DecideRequest) error
}

type registrationService struct {
	requestRepo      repositories.TeacherRequestRepository
	registrationRepo repositories.StudentRegistrationRepository
	userRepo         repositories.UserRepository
	subjectRepo      repositories.SubjectRepository
	classRepo        repositories.ClassRepository
	schoolRepo       repositories.SchoolRepository
	notification     NotificationService
	mailer           email.Provider
}

func NewRegistrationService(
	requestRepo repositories.TeacherRequestRepository,
	registrationRepo repositories.StudentRegistrationRepository,
	userRepo repositories.UserRepository,
	subjectRepo repositories.SubjectRepository,
	classRepo repositories.ClassRepository,
	schoolRepo repositories.SchoolRepository,
	notification NotificationService,
	mailer email.Provider,
) RegistrationService {
	return &registrationService{
		requestRepo:      requestRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		subjectRepo:      subjectRepo,
		classRepo:        classRepo,
		schoolRepo:       schoolRepo,
		notification:     notification,
		mailer:           mailer,
	}
}

// ---------------- Teacher requests ----------------

// SubmitTeacherRequest records an application. Unknown applicants get a
// pending teacher account so the request has someone to point at; it is
// activated only on approval.
func (s *registrationService) SubmitTeacherRequest(req *dto.SubmitTeacherRequest) (*models.TeacherRequest, error) {
	if _, err := s.schoolRepo.FindByID(req.SchoolID); err != nil {
		return nil, apperrors.ErrSchoolNotFound
	}

	applicant, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}

		password, genErr := auth.GeneratePassword(12)
		if genErr != nil {
			return nil, apperrors.InternalError(genErr)
		}
		hash, hashErr := auth.HashPassword(password)
		if hashErr != nil {
			return nil, apperrors.InternalError(hashErr)
		}

		applicant = &models.User{
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
			Role:         models.UserRoleTeacher,
			Status:       models.UserStatusPending,
			SchoolID:     req.SchoolID,
		}
		if err := s.userRepo.Create(applicant); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	request := &models.TeacherRequest{
		ApplicantID: applicant.ID,
		SchoolID:    req.SchoolID,
		Message:     req.Message,
		Status:      models.RequestStatusPending,
	}
	if req.SubjectID != "" {
		request.SubjectID = &req.SubjectID
	}
	if req.ClassID != "" {
		request.ClassID = &req.ClassID
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return request, nil
}

func (s *registrationService) ListTeacherRequests(schoolID string, status models.RequestStatus, page, pageSize int) (*dto.PagedResponse, error) {
	requests, total, err := s.requestRepo.FindBySchool(schoolID, status, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: requests, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *registrationService) DecideTeacherRequest(adminID, requestID string, decision *dto.DecideRequest) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return apperrors.ErrRequestNotFound
	}
	if request.Status != models.RequestStatusPending {
		return apperrors.ErrRequestAlreadyDecided
	}

	status := models.RequestStatusRejected
	if decision.Approve {
		status = models.RequestStatusApproved
	}

	if err := s.requestRepo.Decide(requestID, status, adminID); err != nil {
		if errors.Is(err, repositories.ErrRequestAlreadyClosed) {
			return apperrors.ErrRequestAlreadyDecided
		}
		return apperrors.InternalError(err)
	}

	subjectName := ""
	if decision.Approve {
		if err := s.userRepo.UpdateStatus(request.ApplicantID, models.UserStatusActive); err != nil {
			logger.WithError(err).Warn("applicant activation failed", "request_id", requestID)
		}
		if request.SubjectID != nil {
			if err := s.subjectRepo.AssignTeacher(*request.SubjectID, request.ApplicantID); err != nil {
				logger.WithError(err).Warn("subject assignment failed", "request_id", requestID)
			}
			if subject, err := s.subjectRepo.FindByID(*request.SubjectID); err == nil {
				subjectName = subject.Name
			}
		}
	}

	if subjectName == "" {
		subjectName = "a teaching position"
	}
	if err := s.notification.NotifyRequestStatus(request.ApplicantID, decision.Approve, subjectName); err != nil {
		logger.WithError(err).Warn("request status notification failed", "request_id", requestID)
	}

	s.mailRequestOutcome(request, decision, subjectName)
	return nil
}

func (s *registrationService) mailRequestOutcome(request *models.TeacherRequest, decision *dto.DecideRequest, subjectName string) {
	applicant, err := s.userRepo.FindByID(request.ApplicantID)
	if err != nil {
		logger.WithError(err).Warn("outcome mail skipped, applicant missing", "request_id", request.ID)
		return
	}

	template := email.TemplateRequestRejected
	subject := "Your request was not approved"
	if decision.Approve {
		template = email.TemplateRequestApproved
		subject = "Your request was approved"
	}

	err = s.mailer.SendTemplate([]string{applicant.Email}, subject, template, email.TemplateData{
		"Name":    applicant.Name,
		"Subject": subjectName,
		"Reason":  decision.Reason,
	})
	if err != nil {
		logger.WithError(err).Warn("outcome mail failed", "request_id", request.ID)
	}
}

// ---------------- Student registrations ----------------

func (s *registrationService) SubmitStudentRegistration(req *dto.SubmitStudentRegistration) (*models.StudentRegistration, error) {
	if _, err := s.schoolRepo.FindByID(req.SchoolID); err != nil {
		return nil, apperrors.ErrSchoolNotFound
	}
	if _, err := s.classRepo.FindByID(req.ClassID); err != nil {
		return nil, apperrors.ErrClassNotFound
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	registration := &models.StudentRegistration{
		Name:     req.Name,
		Email:    req.Email,
		ClassID:  req.ClassID,
		SchoolID: req.SchoolID,
		Status:   models.RequestStatusPending,
	}
	if err := s.registrationRepo.Create(registration); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return registration, nil
}

func (s *registrationService) ListStudentRegistrations(schoolID string, status models.RequestStatus, page, pageSize int) (*dto.PagedResponse, error) {
	registrations, total, err := s.registrationRepo.FindBySchool(schoolID, status, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: registrations, Total: total, Page: page, PageSize: pageSize}, nil
}

// DecideStudentRegistration provisions the student account on approval and
// mails the generated credentials; rejection sends the outcome only.
func (s *registrationService) DecideStudentRegistration(adminID, registrationID string, decision *dto.DecideRequest) error {
	registration, err := s.registrationRepo.FindByID(registrationID)
	if err != nil {
		return apperrors.ErrRegistrationNotFound
	}
	if registration.Status != models.RequestStatusPending {
		return apperrors.ErrRequestAlreadyDecided
	}

	status := models.RequestStatusRejected
	if decision.Approve {
		status = models.RequestStatusApproved
	}

	if err := s.registrationRepo.Decide(registrationID, status, adminID); err != nil {
		if errors.Is(err, repositories.ErrRequestAlreadyClosed) {
			return apperrors.ErrRequestAlreadyDecided
		}
		return apperrors.InternalError(err)
	}

	schoolName := ""
	if school, err := s.schoolRepo.FindByID(registration.SchoolID); err == nil {
		schoolName = school.Name
	}

	if !decision.Approve {
		err = s.mailer.SendTemplate([]string{registration.Email}, "Enrollment application outcome",
			email.TemplateStudentRejected, email.TemplateData{
				"Name":   registration.Name,
				"School": schoolName,
				"Reason": decision.Reason,
			})
		if err != nil {
			logger.WithError(err).Warn("rejection mail failed", "registration_id", registrationID)
		}
		return nil
	}

	password, err := auth.GeneratePassword(12)
	if err != nil {
		return apperrors.InternalError(err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	student := &models.User{
		Email:        registration.Email,
		PasswordHash: hash,
		Name:         registration.Name,
		Role:         models.UserRoleStudent,
		Status:       models.UserStatusActive,
		SchoolID:     registration.SchoolID,
		ClassID:      &registration.ClassID,
		IsVerified:   true,
	}
	if err := s.userRepo.Create(student); err != nil {
		if errors.Is(err, repositories.ErrUserDuplicate) {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}

	err = s.mailer.SendTemplate([]string{student.Email}, "Welcome to "+schoolName,
		email.TemplateStudentApproved, email.TemplateData{
			"Name":     student.Name,
			"School":   schoolName,
			"Email":    student.Email,
			"Password": password,
		})
	if err != nil {
		logger.WithError(err).Warn("credentials mail failed", "registration_id", registrationID)
	}

	return nil
}
