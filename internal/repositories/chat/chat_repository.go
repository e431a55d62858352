package chat

import (
	"errors"

	"schoolhub_backend/internal/models"
	chatmodels "schoolhub_backend/internal/models/chat"

	"gorm.io/gorm"
)

var ErrChatNotFound = errors.New("chat not found")

type ChatRepository interface {
	Create(chat *chatmodels.Chat) error
	FindByID(id string) (*chatmodels.Chat, error)
	FindClassChat(classID, schoolID string) (*chatmodels.Chat, error)
	FindPrivateChat(user1ID, user2ID string) (*chatmodels.Chat, error)
	FindAllByUser(userID string) ([]chatmodels.Chat, error)
	Deactivate(id string) error
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) Create(chat *chatmodels.Chat) error {
	return r.db.Create(chat).Error
}

func (r *ChatRepositoryImpl) FindByID(id string) (*chatmodels.Chat, error) {
	var chat chatmodels.Chat
	err := r.db.Preload("Participants").First(&chat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// FindClassChat looks up the class chat for a class within a school. Callers
// use it as an existence probe before creating one.
func (r *ChatRepositoryImpl) FindClassChat(classID, schoolID string) (*chatmodels.Chat, error) {
	var chat chatmodels.Chat
	err := r.db.Where("type = ? AND class_id = ? AND school_id = ?",
		models.ChatTypeClass, classID, schoolID).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) FindPrivateChat(user1ID, user2ID string) (*chatmodels.Chat, error) {
	var chat chatmodels.Chat
	err := r.db.Raw(`
		SELECT c.* FROM chat.chats c
		JOIN chat.participants p1 ON p1.chat_id = c.id AND p1.user_id = ?
		JOIN chat.participants p2 ON p2.chat_id = c.id AND p2.user_id = ?
		WHERE c.type = 'private'
		LIMIT 1`, user1ID, user2ID).Scan(&chat).Error
	if err != nil {
		return nil, err
	}
	if chat.ID == "" {
		return nil, ErrChatNotFound
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) FindAllByUser(userID string) ([]chatmodels.Chat, error) {
	var chats []chatmodels.Chat
	err := r.db.
		Joins("JOIN chat.participants p ON p.chat_id = chats.id").
		Where("p.user_id = ? AND chats.is_active = ?", userID, true).
		Preload("Participants").
		Order("chats.updated_at DESC").
		Find(&chats).Error
	return chats, err
}

// Deactivate soft-closes a chat; history stays queryable.
func (r *ChatRepositoryImpl) Deactivate(id string) error {
	result := r.db.Model(&chatmodels.Chat{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}
