package repositories

import (
	"errors"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNoticeNotFound = errors.New("notice not found")

type NoticeRepository interface {
	Create(notice *models.Notice) error
	FindByID(id string) (*models.Notice, error)
	FindBySchool(schoolID string, audience models.NoticeAudience, page, pageSize int) ([]models.Notice, int64, error)
	Update(notice *models.Notice) error
	Delete(id string) error
}

type NoticeRepositoryImpl struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &NoticeRepositoryImpl{db: db}
}

func (r *NoticeRepositoryImpl) Create(notice *models.Notice) error {
	return r.db.Create(notice).Error
}

func (r *NoticeRepositoryImpl) FindByID(id string) (*models.Notice, error) {
	var notice models.Notice
	err := r.db.First(&notice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}
	return &notice, nil
}

// FindBySchool returns notices visible to the given audience: role-scoped
// notices plus those addressed to everyone.
func (r *NoticeRepositoryImpl) FindBySchool(schoolID string, audience models.NoticeAudience, page, pageSize int) ([]models.Notice, int64, error) {
	var notices []models.Notice
	query := r.db.Model(&models.Notice{}).Where("school_id = ?", schoolID)

	if audience != "" && audience != models.NoticeAudienceAll {
		query = query.Where("audience IN ?", []models.NoticeAudience{models.NoticeAudienceAll, audience})
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(page, pageSize)
	err := query.Order("date DESC").Limit(limit).Offset(offset).Find(&notices).Error
	return notices, total, err
}

func (r *NoticeRepositoryImpl) Update(notice *models.Notice) error {
	result := r.db.Model(notice).Updates(map[string]interface{}{
		"title":    notice.Title,
		"body":     notice.Body,
		"audience": notice.Audience,
		"date":     notice.Date,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoticeNotFound
	}
	return nil
}

func (r *NoticeRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Notice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoticeNotFound
	}
	return nil
}
