package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class for API clients.
type ErrorCode string

// AppError is the application's error envelope.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// MarshalJSON hides Err and HTTPCode from API responses.
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors.
var (
	// Authentication
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Users
	ErrUserNotFound            = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists      = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	ErrUserSuspended           = New(CodeUserSuspended, "User account suspended", http.StatusForbidden)
	ErrWeakPassword            = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)
	ErrInvalidUserRole         = New(CodeInvalidUserRole, "Invalid user role", http.StatusBadRequest)
	ErrInsufficientPermissions = New(CodeInsufficientPermissions, "Insufficient permissions", http.StatusForbidden)

	// School resources
	ErrSchoolNotFound       = New(CodeSchoolNotFound, "School not found", http.StatusNotFound)
	ErrClassNotFound        = New(CodeClassNotFound, "Class not found", http.StatusNotFound)
	ErrSubjectNotFound      = New(CodeSubjectNotFound, "Subject not found", http.StatusNotFound)
	ErrGradeNotFound        = New(CodeNotFound, "Grade not found", http.StatusNotFound)
	ErrAssignmentNotFound   = New(CodeNotFound, "Assignment not found", http.StatusNotFound)
	ErrNoticeNotFound       = New(CodeNotFound, "Notice not found", http.StatusNotFound)
	ErrComplaintNotFound    = New(CodeNotFound, "Complaint not found", http.StatusNotFound)
	ErrRequestNotFound      = New(CodeNotFound, "Request not found", http.StatusNotFound)
	ErrRegistrationNotFound = New(CodeNotFound, "Registration not found", http.StatusNotFound)
	ErrRequestAlreadyDecided = New(CodeAlreadyDecided, "Request has already been decided", http.StatusConflict)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)

	// Notifications
	ErrNotificationNotFound    = New("NOTIFICATION_NOT_FOUND", "Notification not found", http.StatusNotFound)
	ErrInvalidNotificationType = New("INVALID_NOTIFICATION_TYPE", "Invalid notification type", http.StatusBadRequest)
	ErrNotificationNotOwned    = New("NOTIFICATION_NOT_OWNED", "Notification does not belong to the caller", http.StatusForbidden)

	// Chat
	ErrChatNotFound        = New("CHAT_NOT_FOUND", "Chat not found", http.StatusNotFound)
	ErrMessageNotFound     = New("MESSAGE_NOT_FOUND", "Message not found", http.StatusNotFound)
	ErrParticipantNotFound = New("PARTICIPANT_NOT_FOUND", "Participant not found", http.StatusNotFound)
	ErrUserNotInChat       = New("USER_NOT_IN_CHAT", "User is not a participant in this chat", http.StatusForbidden)
	ErrChatAccessDenied    = New("CHAT_ACCESS_DENIED", "Access to chat denied", http.StatusForbidden)
	ErrClassChatExists     = New("CLASS_CHAT_EXISTS", "Chat for this class already exists", http.StatusConflict)
	ErrEmptyMessage        = New("EMPTY_MESSAGE", "Message content is empty", http.StatusBadRequest)
	ErrInvalidMessageType  = New("INVALID_MESSAGE_TYPE", "Invalid message type", http.StatusBadRequest)
	ErrFileTooLarge        = New("FILE_TOO_LARGE", "File too large", http.StatusBadRequest)
	ErrInvalidFileType     = New("INVALID_FILE_TYPE", "Invalid file type", http.StatusBadRequest)

	// Rate limiting
	ErrRateLimited = New(CodeRateLimited, "Too many requests", http.StatusTooManyRequests)
)

// Helpers for errors carrying details.
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewConflictError(message string) *AppError {
	return New(CodeEmailAlreadyExists, message, http.StatusConflict)
}

func NewInternalError(message string) *AppError {
	return New(CodeInternalError, message, http.StatusInternalServerError)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewNotFoundError(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}
