package services

import (
	"schoolhub_backend/internal/email"
	"schoolhub_backend/internal/storage"
)

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	SchoolService       SchoolService
	ClassService        ClassService
	SubjectService      SubjectService
	GradeService        GradeService
	AssignmentService   AssignmentService
	NoticeService       NoticeService
	ComplaintService    ComplaintService
	RegistrationService RegistrationService
	NotificationService NotificationService
	ChatService         ChatService
	EmailService        email.Provider
	Storage             storage.Storage
}
