package chat

import (
	"errors"
	"time"

	"schoolhub_backend/internal/models"
	chatmodels "schoolhub_backend/internal/models/chat"

	"gorm.io/gorm"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	CreateMany(participants []chatmodels.Participant) error
	Find(chatID, userID string) (*chatmodels.Participant, error)
	IsUserInChat(userID, chatID string) (bool, error)
	GetParticipants(chatID string) ([]chatmodels.Participant, error)
	UpdateLastSeen(userID, chatID string, t time.Time) error
	UpdateRole(chatID, userID string, role models.MembershipRole) error
	Remove(chatID, userID string) error
}

type ParticipantRepositoryImpl struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &ParticipantRepositoryImpl{db: db}
}

func (r *ParticipantRepositoryImpl) CreateMany(participants []chatmodels.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.Create(&participants).Error
}

func (r *ParticipantRepositoryImpl) Find(chatID, userID string) (*chatmodels.Participant, error) {
	var participant chatmodels.Participant
	err := r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (r *ParticipantRepositoryImpl) IsUserInChat(userID, chatID string) (bool, error) {
	var count int64
	err := r.db.Model(&chatmodels.Participant{}).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Count(&count).Error
	return count > 0, err
}

func (r *ParticipantRepositoryImpl) GetParticipants(chatID string) ([]chatmodels.Participant, error) {
	var participants []chatmodels.Participant
	err := r.db.Preload("User").Where("chat_id = ?", chatID).Find(&participants).Error
	return participants, err
}

func (r *ParticipantRepositoryImpl) UpdateLastSeen(userID, chatID string, t time.Time) error {
	return r.db.Model(&chatmodels.Participant{}).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Update("last_seen_at", t).Error
}

func (r *ParticipantRepositoryImpl) UpdateRole(chatID, userID string, role models.MembershipRole) error {
	result := r.db.Model(&chatmodels.Participant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

func (r *ParticipantRepositoryImpl) Remove(chatID, userID string) error {
	result := r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&chatmodels.Participant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}
