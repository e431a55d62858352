package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBulk(notifications []*models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindByRecipient(recipientID string, criteria NotificationCriteria) ([]models.Notification, int64, error)

	MarkAsRead(id, recipientID string) error
	MarkAsUnread(id, recipientID string) error
	Archive(id, recipientID string) error
	Unarchive(id, recipientID string) error
	MarkAllAsRead(recipientID string) (int64, error)

	CountOwned(ids []string, recipientID string) (int64, error)
	BulkUpdate(ids []string, recipientID string, fields map[string]interface{}) error
	BulkDelete(ids []string, recipientID string) error

	UnreadCount(recipientID string) (int64, error)
	Stats(recipientID string) (*NotificationStats, error)

	DeleteExpired(now time.Time) (int64, error)
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

type NotificationCriteria struct {
	Type       string `form:"type"`
	Priority   string `form:"priority"`
	IsRead     *bool  `form:"is_read"`
	IsArchived *bool  `form:"is_archived"`
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
}

type NotificationStats struct {
	Total         int64            `json:"total"`
	UnreadCount   int64            `json:"unread_count"`
	ArchivedCount int64            `json:"archived_count"`
	ByType        map[string]int64 `json:"by_type"`
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	if err := r.validate(notification); err != nil {
		return err
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBulk(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, notification := range notifications {
		if err := r.validate(notification); err != nil {
			return err
		}
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindByRecipient(recipientID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)

	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}
	if criteria.Priority != "" {
		query = query.Where("priority = ?", criteria.Priority)
	}
	if criteria.IsRead != nil {
		query = query.Where("is_read = ?", *criteria.IsRead)
	}
	if criteria.IsArchived != nil {
		query = query.Where("is_archived = ?", *criteria.IsArchived)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(criteria.Page, criteria.PageSize)
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(id, recipientID string) error {
	return r.flagUpdate(id, recipientID, map[string]interface{}{
		"is_read": true,
		"read_at": time.Now(),
	}, "")
}

func (r *NotificationRepositoryImpl) MarkAsUnread(id, recipientID string) error {
	return r.flagUpdate(id, recipientID, map[string]interface{}{
		"is_read": false,
		"read_at": nil,
	}, "")
}

// Archive only touches rows not yet archived, so a repeat call keeps the
// archived_at of the first.
func (r *NotificationRepositoryImpl) Archive(id, recipientID string) error {
	return r.flagUpdate(id, recipientID, map[string]interface{}{
		"is_archived": true,
		"archived_at": time.Now(),
	}, "is_archived = false")
}

func (r *NotificationRepositoryImpl) Unarchive(id, recipientID string) error {
	return r.flagUpdate(id, recipientID, map[string]interface{}{
		"is_archived": false,
		"archived_at": nil,
	}, "is_archived = true")
}

func (r *NotificationRepositoryImpl) flagUpdate(id, recipientID string, fields map[string]interface{}, guard string) error {
	query := r.db.Model(&models.Notification{}).Where("id = ? AND recipient_id = ?", id, recipientID)
	if guard != "" {
		query = query.Where(guard)
	}
	result := query.Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 && guard == "" {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(recipientID string) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND is_archived = ?", recipientID, false, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) CountOwned(ids []string, recipientID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("id IN ? AND recipient_id = ?", ids, recipientID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) BulkUpdate(ids []string, recipientID string, fields map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("id IN ? AND recipient_id = ?", ids, recipientID).
		Updates(fields).Error
}

func (r *NotificationRepositoryImpl) BulkDelete(ids []string, recipientID string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ? AND recipient_id = ?", ids, recipientID).
		Delete(&models.Notification{}).Error
}

func (r *NotificationRepositoryImpl) UnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND is_archived = ?", recipientID, false, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) Stats(recipientID string) (*NotificationStats, error) {
	var stats NotificationStats

	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND is_archived = ?", recipientID, false, false).
		Count(&stats.UnreadCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_archived = ?", recipientID, true).
		Count(&stats.ArchivedCount).Error; err != nil {
		return nil, err
	}

	stats.ByType = make(map[string]int64)
	var typeStats []struct {
		Type  string
		Count int64
	}
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).
		Select("type, COUNT(*) as count").
		Group("type").Scan(&typeStats).Error
	if err != nil {
		return nil, err
	}
	for _, ts := range typeStats {
		stats.ByType[ts.Type] = ts.Count
	}

	return &stats, nil
}

// DeleteExpired purges rows whose expiry has passed. Run from the background
// worker.
func (r *NotificationRepositoryImpl) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) validate(notification *models.Notification) error {
	if notification.RecipientID == "" {
		return errors.New("recipient ID is required")
	}
	if notification.Title == "" {
		return errors.New("notification title is required")
	}
	if !models.ValidNotificationType(notification.Type) {
		return fmt.Errorf("invalid notification type: %s", notification.Type)
	}
	if len(notification.Data) > 0 && !json.Valid(notification.Data) {
		return ErrInvalidNotificationData
	}
	return nil
}
