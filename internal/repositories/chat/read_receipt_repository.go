package chat

import (
	"time"

	chatmodels "schoolhub_backend/internal/models/chat"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReadReceiptRepository interface {
	Upsert(messageID, userID string, readAt time.Time) error
	FindByMessage(messageID string) ([]chatmodels.ReadReceipt, error)
}

type ReadReceiptRepositoryImpl struct {
	db *gorm.DB
}

func NewReadReceiptRepository(db *gorm.DB) ReadReceiptRepository {
	return &ReadReceiptRepositoryImpl{db: db}
}

// Upsert keeps the first read time when a receipt already exists.
func (r *ReadReceiptRepositoryImpl) Upsert(messageID, userID string, readAt time.Time) error {
	receipt := chatmodels.ReadReceipt{
		MessageID: messageID,
		UserID:    userID,
		ReadAt:    readAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&receipt).Error
}

func (r *ReadReceiptRepositoryImpl) FindByMessage(messageID string) ([]chatmodels.ReadReceipt, error) {
	var receipts []chatmodels.ReadReceipt
	err := r.db.Where("message_id = ?", messageID).Find(&receipts).Error
	return receipts, err
}
