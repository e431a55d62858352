package repositories

import (
	"errors"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrComplaintNotFound = errors.New("complaint not found")

type ComplaintRepository interface {
	Create(complaint *models.Complaint) error
	FindByID(id string) (*models.Complaint, error)
	FindBySchool(schoolID string, status models.ComplaintStatus, page, pageSize int) ([]models.Complaint, int64, error)
	FindByAuthor(authorID string, page, pageSize int) ([]models.Complaint, int64, error)
	UpdateStatus(id string, status models.ComplaintStatus) error
	Delete(id string) error
}

type ComplaintRepositoryImpl struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &ComplaintRepositoryImpl{db: db}
}

func (r *ComplaintRepositoryImpl) Create(complaint *models.Complaint) error {
	return r.db.Create(complaint).Error
}

func (r *ComplaintRepositoryImpl) FindByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.Preload("Author").First(&complaint, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepositoryImpl) FindBySchool(schoolID string, status models.ComplaintStatus, page, pageSize int) ([]models.Complaint, int64, error) {
	query := r.db.Model(&models.Complaint{}).Where("school_id = ?", schoolID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.page(query, page, pageSize)
}

func (r *ComplaintRepositoryImpl) FindByAuthor(authorID string, page, pageSize int) ([]models.Complaint, int64, error) {
	query := r.db.Model(&models.Complaint{}).Where("author_id = ?", authorID)
	return r.page(query, page, pageSize)
}

func (r *ComplaintRepositoryImpl) page(query *gorm.DB, page, pageSize int) ([]models.Complaint, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var complaints []models.Complaint
	limit, offset := Paginate(page, pageSize)
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&complaints).Error
	return complaints, total, err
}

func (r *ComplaintRepositoryImpl) UpdateStatus(id string, status models.ComplaintStatus) error {
	result := r.db.Model(&models.Complaint{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Complaint{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrComplaintNotFound
	}
	return nil
}
