package repositories

import (
	"errors"
	"strings"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSchoolNotFound  = errors.New("school not found")
	ErrSchoolDuplicate = errors.New("school with this code already exists")
)

type SchoolRepository interface {
	Create(school *models.School) error
	FindByID(id string) (*models.School, error)
	FindByCode(code string) (*models.School, error)
	FindAll(page, pageSize int) ([]models.School, int64, error)
	Update(school *models.School) error
	Deactivate(id string) error
}

type SchoolRepositoryImpl struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &SchoolRepositoryImpl{db: db}
}

func (r *SchoolRepositoryImpl) Create(school *models.School) error {
	err := r.db.Create(school).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrSchoolDuplicate
	}
	return err
}

func (r *SchoolRepositoryImpl) FindByID(id string) (*models.School, error) {
	var school models.School
	err := r.db.First(&school, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return &school, nil
}

func (r *SchoolRepositoryImpl) FindByCode(code string) (*models.School, error) {
	var school models.School
	err := r.db.First(&school, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return &school, nil
}

func (r *SchoolRepositoryImpl) FindAll(page, pageSize int) ([]models.School, int64, error) {
	var schools []models.School

	var total int64
	if err := r.db.Model(&models.School{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(page, pageSize)
	err := r.db.Order("name ASC").Limit(limit).Offset(offset).Find(&schools).Error
	return schools, total, err
}

func (r *SchoolRepositoryImpl) Update(school *models.School) error {
	result := r.db.Model(school).Updates(map[string]interface{}{
		"name":      school.Name,
		"address":   school.Address,
		"is_active": school.IsActive,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}
	return nil
}

func (r *SchoolRepositoryImpl) Deactivate(id string) error {
	result := r.db.Model(&models.School{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}
	return nil
}
