package models

type UserRole string
type UserStatus string
type RequestStatus string
type ComplaintStatus string
type NoticeAudience string
type NotificationType string
type NotificationPriority string
type ChatType string
type MembershipRole string
type MessageType string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleTeacher UserRole = "teacher"
	UserRoleStudent UserRole = "student"

	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"

	ComplaintStatusOpen     ComplaintStatus = "open"
	ComplaintStatusResolved ComplaintStatus = "resolved"

	NoticeAudienceAll      NoticeAudience = "all"
	NoticeAudienceTeachers NoticeAudience = "teachers"
	NoticeAudienceStudents NoticeAudience = "students"
)

// Closed enumeration of notification types. Creation with a type outside this
// set is rejected.
const (
	NotificationTypeGradeUpdate        NotificationType = "grade_update"
	NotificationTypeAttendanceUpdate   NotificationType = "attendance_update"
	NotificationTypeRequestStatus      NotificationType = "request_status"
	NotificationTypeNewAssignment      NotificationType = "new_assignment"
	NotificationTypeNewMessage         NotificationType = "new_message"
	NotificationTypeNewNotice          NotificationType = "new_notice"
	NotificationTypeSystemAnnouncement NotificationType = "system_announcement"
	NotificationTypeChatAdded          NotificationType = "chat_added"
)

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

const (
	ChatTypeClass   ChatType = "class"
	ChatTypeSubject ChatType = "subject"
	ChatTypePrivate ChatType = "private"
	ChatTypeGroup   ChatType = "group"

	MembershipRoleAdmin     MembershipRole = "admin"
	MembershipRoleModerator MembershipRole = "moderator"
	MembershipRoleMember    MembershipRole = "member"

	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeVoice    MessageType = "voice"
	MessageTypeFile     MessageType = "file"
	MessageTypeDocument MessageType = "document"
)

// ValidNotificationType reports membership in the closed enumeration.
func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeGradeUpdate,
		NotificationTypeAttendanceUpdate,
		NotificationTypeRequestStatus,
		NotificationTypeNewAssignment,
		NotificationTypeNewMessage,
		NotificationTypeNewNotice,
		NotificationTypeSystemAnnouncement,
		NotificationTypeChatAdded:
		return true
	}
	return false
}

// ValidNotificationPriority reports membership in the priority enumeration.
func ValidNotificationPriority(p NotificationPriority) bool {
	switch p {
	case NotificationPriorityLow, NotificationPriorityMedium,
		NotificationPriorityHigh, NotificationPriorityUrgent:
		return true
	}
	return false
}

// ValidUserRole reports membership in the role enumeration.
func ValidUserRole(r UserRole) bool {
	switch r {
	case UserRoleAdmin, UserRoleTeacher, UserRoleStudent:
		return true
	}
	return false
}
