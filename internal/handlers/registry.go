package handlers

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	HealthHandler       *HealthHandler
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	SchoolHandler       *SchoolHandler
	ClassHandler        *ClassHandler
	SubjectHandler      *SubjectHandler
	GradeHandler        *GradeHandler
	AssignmentHandler   *AssignmentHandler
	NoticeHandler       *NoticeHandler
	ComplaintHandler    *ComplaintHandler
	RegistrationHandler *RegistrationHandler
	NotificationHandler *NotificationHandler
	ChatHandler         *ChatHandler
}
