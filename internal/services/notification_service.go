package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/metrics"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

// Bulk operation names accepted by BulkOperation.
const (
	BulkOpMarkAsRead   = "markAsRead"
	BulkOpMarkAsUnread = "markAsUnread"
	BulkOpArchive      = "archive"
	BulkOpUnarchive    = "unarchive"
	BulkOpDelete       = "delete"
)

type NotificationService interface {
	Create(senderID *string, req *dto.CreateNotificationRequest) (*dto.NotificationDTO, error)
	CreateBulk(senderID *string, req *dto.CreateBulkNotificationRequest) (int, error)
	List(recipientID string, criteria repositories.NotificationCriteria) (*dto.PagedResponse, error)
	MarkAsRead(recipientID, id string) error
	MarkAsUnread(recipientID, id string) error
	Archive(recipientID, id string) error
	Unarchive(recipientID, id string) error
	MarkAllAsRead(recipientID string) (int64, error)
	BulkOperation(recipientID string, req *dto.BulkOperationRequest) error
	UnreadCount(recipientID string) (int64, error)
	Stats(recipientID string) (*repositories.NotificationStats, error)
	DeleteExpired() (int64, error)

	// Factories for the events other services raise.
	NotifyGradeUpdate(studentID, subjectName string, marksObtained, marksTotal float64, gradeID string) error
	NotifyNewAssignment(recipientIDs []string, title, subjectName, assignmentID string) error
	NotifyNotice(recipientIDs []string, title, noticeID string) error
	NotifyRequestStatus(recipientID string, approved bool, subject string) error
	NotifyChatAdded(recipientIDs []string, chatID, chatName string) error
	NotifyNewMessage(recipientID, senderName, chatID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	broadcaster      Broadcaster
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	broadcaster Broadcaster,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
	}
}

func (s *notificationService) Create(senderID *string, req *dto.CreateNotificationRequest) (*dto.NotificationDTO, error) {
	if !models.ValidNotificationType(req.Type) {
		return nil, apperrors.ErrInvalidNotificationType
	}

	priority := req.Priority
	if priority == "" {
		priority = models.NotificationPriorityMedium
	}
	if !models.ValidNotificationPriority(priority) {
		return nil, apperrors.ValidationError(map[string]string{"priority": "invalid priority"})
	}

	recipient, err := s.userRepo.FindByID(req.RecipientID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if recipient.Role != req.RecipientRole {
		return nil, apperrors.ValidationError(map[string]string{
			"recipient_role": fmt.Sprintf("recipient is a %s, not a %s", recipient.Role, req.RecipientRole),
		})
	}

	notification, err := s.build(senderID, recipient, req.Type, req.Title, req.Message, req.Data, priority, req.ActionRequired, req.ActionURL, req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.emit(notification)

	result := toNotificationDTO(notification)
	return &result, nil
}

// CreateBulk inserts one row per recipient in a single batch, then emits to
// each connected recipient. Emission is not part of the insert: a failure
// mid-loop leaves earlier recipients notified and is not rolled back.
func (s *notificationService) CreateBulk(senderID *string, req *dto.CreateBulkNotificationRequest) (int, error) {
	if !models.ValidNotificationType(req.Type) {
		return 0, apperrors.ErrInvalidNotificationType
	}

	priority := req.Priority
	if priority == "" {
		priority = models.NotificationPriorityMedium
	}
	if !models.ValidNotificationPriority(priority) {
		return 0, apperrors.ValidationError(map[string]string{"priority": "invalid priority"})
	}

	recipients, err := s.userRepo.FindByIDs(req.RecipientIDs)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	notifications := make([]*models.Notification, 0, len(recipients))
	for i := range recipients {
		notification, err := s.build(senderID, &recipients[i], req.Type, req.Title, req.Message, req.Data, priority, req.ActionRequired, req.ActionURL, req.ExpiresAt)
		if err != nil {
			return 0, err
		}
		notifications = append(notifications, notification)
	}

	if len(notifications) == 0 {
		return 0, nil
	}

	if err := s.notificationRepo.CreateBulk(notifications); err != nil {
		return 0, apperrors.InternalError(err)
	}

	for _, notification := range notifications {
		s.emit(notification)
	}

	return len(notifications), nil
}

func (s *notificationService) build(
	senderID *string,
	recipient *models.User,
	notificationType models.NotificationType,
	title, message string,
	data map[string]interface{},
	priority models.NotificationPriority,
	actionRequired bool,
	actionURL string,
	expiresAt *time.Time,
) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID:    recipient.ID,
		RecipientRole:  recipient.Role,
		SenderID:       senderID,
		Type:           notificationType,
		Title:          title,
		Message:        message,
		Priority:       priority,
		ActionRequired: actionRequired,
		ActionURL:      actionURL,
		ExpiresAt:      expiresAt,
	}

	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, apperrors.ValidationError(map[string]string{"data": "payload is not serializable"})
		}
		notification.Data = datatypes.JSON(raw)
	}

	return notification, nil
}

func (s *notificationService) emit(notification *models.Notification) {
	metrics.NotificationsEmitted.Inc()
	s.broadcaster.EmitToUser(notification.RecipientID, Event{
		Type:    "new-notification",
		Payload: toNotificationDTO(notification),
	})
}

func (s *notificationService) List(recipientID string, criteria repositories.NotificationCriteria) (*dto.PagedResponse, error) {
	notifications, total, err := s.notificationRepo.FindByRecipient(recipientID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationDTO(&notifications[i]))
	}

	return &dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}, nil
}

func (s *notificationService) MarkAsRead(recipientID, id string) error {
	return s.ownedFlagOp(recipientID, id, s.notificationRepo.MarkAsRead)
}

func (s *notificationService) MarkAsUnread(recipientID, id string) error {
	return s.ownedFlagOp(recipientID, id, s.notificationRepo.MarkAsUnread)
}

func (s *notificationService) Archive(recipientID, id string) error {
	return s.ownedFlagOp(recipientID, id, s.notificationRepo.Archive)
}

func (s *notificationService) Unarchive(recipientID, id string) error {
	return s.ownedFlagOp(recipientID, id, s.notificationRepo.Unarchive)
}

func (s *notificationService) ownedFlagOp(recipientID, id string, op func(id, recipientID string) error) error {
	notification, err := s.notificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	if notification.RecipientID != recipientID {
		return apperrors.ErrNotificationNotOwned
	}

	if err := op(id, recipientID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(recipientID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(recipientID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return updated, nil
}

// BulkOperation verifies ownership of the whole batch first; a single foreign
// id rejects everything.
func (s *notificationService) BulkOperation(recipientID string, req *dto.BulkOperationRequest) error {
	owned, err := s.notificationRepo.CountOwned(req.IDs, recipientID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if owned != int64(len(req.IDs)) {
		return apperrors.ErrNotificationNotOwned
	}

	switch req.Operation {
	case BulkOpMarkAsRead:
		err = s.notificationRepo.BulkUpdate(req.IDs, recipientID, map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	case BulkOpMarkAsUnread:
		err = s.notificationRepo.BulkUpdate(req.IDs, recipientID, map[string]interface{}{
			"is_read": false,
			"read_at": nil,
		})
	case BulkOpArchive:
		err = s.notificationRepo.BulkUpdate(req.IDs, recipientID, map[string]interface{}{
			"is_archived": true,
			"archived_at": time.Now(),
		})
	case BulkOpUnarchive:
		err = s.notificationRepo.BulkUpdate(req.IDs, recipientID, map[string]interface{}{
			"is_archived": false,
			"archived_at": nil,
		})
	case BulkOpDelete:
		err = s.notificationRepo.BulkDelete(req.IDs, recipientID)
	default:
		return apperrors.ValidationError(map[string]string{"operation": "unknown operation"})
	}

	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) UnreadCount(recipientID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(recipientID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) Stats(recipientID string) (*repositories.NotificationStats, error) {
	stats, err := s.notificationRepo.Stats(recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

func (s *notificationService) DeleteExpired() (int64, error) {
	return s.notificationRepo.DeleteExpired(time.Now())
}

// ---------------- Factories ----------------

func (s *notificationService) NotifyGradeUpdate(studentID, subjectName string, marksObtained, marksTotal float64, gradeID string) error {
	_, err := s.Create(nil, &dto.CreateNotificationRequest{
		RecipientID:   studentID,
		RecipientRole: models.UserRoleStudent,
		Type:          models.NotificationTypeGradeUpdate,
		Title:         "Grade posted",
		Message:       fmt.Sprintf("You scored %.1f/%.1f in %s", marksObtained, marksTotal, subjectName),
		Data:          map[string]interface{}{"grade_id": gradeID, "subject": subjectName},
		Priority:      models.NotificationPriorityMedium,
	})
	return err
}

func (s *notificationService) NotifyNewAssignment(recipientIDs []string, title, subjectName, assignmentID string) error {
	_, err := s.CreateBulk(nil, &dto.CreateBulkNotificationRequest{
		RecipientIDs: recipientIDs,
		Type:         models.NotificationTypeNewAssignment,
		Title:        "New assignment",
		Message:      fmt.Sprintf("%s: %s", subjectName, title),
		Data:         map[string]interface{}{"assignment_id": assignmentID},
		Priority:     models.NotificationPriorityHigh,
	})
	return err
}

func (s *notificationService) NotifyNotice(recipientIDs []string, title, noticeID string) error {
	_, err := s.CreateBulk(nil, &dto.CreateBulkNotificationRequest{
		RecipientIDs: recipientIDs,
		Type:         models.NotificationTypeSystemAnnouncement,
		Title:        "New notice",
		Message:      title,
		Data:         map[string]interface{}{"notice_id": noticeID},
		Priority:     models.NotificationPriorityMedium,
	})
	return err
}

func (s *notificationService) NotifyRequestStatus(recipientID string, approved bool, subject string) error {
	recipient, err := s.userRepo.FindByID(recipientID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	verdict := "rejected"
	priority := models.NotificationPriorityMedium
	if approved {
		verdict = "approved"
		priority = models.NotificationPriorityHigh
	}

	_, err = s.Create(nil, &dto.CreateNotificationRequest{
		RecipientID:   recipientID,
		RecipientRole: recipient.Role,
		Type:          models.NotificationTypeRequestStatus,
		Title:         "Request " + verdict,
		Message:       fmt.Sprintf("Your request for %s was %s", subject, verdict),
		Priority:      priority,
	})
	return err
}

func (s *notificationService) NotifyChatAdded(recipientIDs []string, chatID, chatName string) error {
	_, err := s.CreateBulk(nil, &dto.CreateBulkNotificationRequest{
		RecipientIDs: recipientIDs,
		Type:         models.NotificationTypeChatAdded,
		Title:        "Added to chat",
		Message:      fmt.Sprintf("You were added to %s", chatName),
		Data:         map[string]interface{}{"chat_id": chatID},
		Priority:     models.NotificationPriorityLow,
	})
	return err
}

func (s *notificationService) NotifyNewMessage(recipientID, senderName, chatID string) error {
	recipient, err := s.userRepo.FindByID(recipientID)
	if err != nil {
		logger.Warn("skipping message notification, recipient missing", "recipient_id", recipientID)
		return nil
	}

	_, err = s.Create(nil, &dto.CreateNotificationRequest{
		RecipientID:   recipientID,
		RecipientRole: recipient.Role,
		Type:          models.NotificationTypeNewMessage,
		Title:         "New message",
		Message:       fmt.Sprintf("New message from %s", senderName),
		Data:          map[string]interface{}{"chat_id": chatID},
		Priority:      models.NotificationPriorityLow,
	})
	return err
}

func toNotificationDTO(n *models.Notification) dto.NotificationDTO {
	result := dto.NotificationDTO{
		ID:             n.ID,
		RecipientID:    n.RecipientID,
		SenderID:       n.SenderID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		Priority:       n.Priority,
		IsRead:         n.IsRead,
		ReadAt:         n.ReadAt,
		IsArchived:     n.IsArchived,
		ArchivedAt:     n.ArchivedAt,
		ActionRequired: n.ActionRequired,
		ActionURL:      n.ActionURL,
		ExpiresAt:      n.ExpiresAt,
		CreatedAt:      n.CreatedAt,
	}

	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			result.Data = data
		}
	}

	return result
}
