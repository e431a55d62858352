package dto

// SubmitTeacherRequest is the public application to take over a subject.
type SubmitTeacherRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	SchoolID  string `json:"school_id" binding:"required,uuid"`
	SubjectID string `json:"subject_id" binding:"omitempty,uuid"`
	ClassID   string `json:"class_id" binding:"omitempty,uuid"`
	Message   string `json:"message"`
}

// SubmitStudentRegistration is the public enrollment application.
type SubmitStudentRegistration struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	SchoolID string `json:"school_id" binding:"required,uuid"`
	ClassID  string `json:"class_id" binding:"required,uuid"`
}

// DecideRequest carries the admin's verdict.
type DecideRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}
