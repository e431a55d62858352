package chat

import (
	"errors"
	"time"

	chatmodels "schoolhub_backend/internal/models/chat"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *chatmodels.Message) error
	FindByID(id string) (*chatmodels.Message, error)
	FindByChat(chatID string, page, limit int) ([]chatmodels.Message, int64, error)
	CountAfter(chatID, excludeSenderID string, after time.Time) (int64, error)
	UpdateContent(id, content string) error
	Delete(id string) error
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *chatmodels.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(id string) (*chatmodels.Message, error) {
	var message chatmodels.Message
	err := r.db.First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindByChat pages backwards through history: page 1 is the newest messages.
// Callers re-order the page chronologically for display.
func (r *MessageRepositoryImpl) FindByChat(chatID string, page, limit int) ([]chatmodels.Message, int64, error) {
	query := r.db.Model(&chatmodels.Message{}).Where("chat_id = ?", chatID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var messages []chatmodels.Message
	err := query.Preload("ReplyTo").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&messages).Error
	return messages, total, err
}

// CountAfter counts messages from other senders created after the given
// instant. Backs the unread counter.
func (r *MessageRepositoryImpl) CountAfter(chatID, excludeSenderID string, after time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&chatmodels.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND created_at > ?", chatID, excludeSenderID, after).
		Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) UpdateContent(id, content string) error {
	result := r.db.Model(&chatmodels.Message{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&chatmodels.Message{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
