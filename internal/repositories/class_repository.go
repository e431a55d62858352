package repositories

import (
	"errors"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrClassNotFound = errors.New("class not found")

type ClassRepository interface {
	Create(class *models.Class) error
	FindByID(id string) (*models.Class, error)
	FindBySchool(schoolID string, page, pageSize int) ([]models.Class, int64, error)
	Update(class *models.Class) error
	Delete(id string) error
	GradeAverages(classID string) ([]SubjectAverage, error)
}

// SubjectAverage is a per-subject aggregate over a class's grades.
type SubjectAverage struct {
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Average     float64 `json:"average"`
	Entries     int64   `json:"entries"`
}

type ClassRepositoryImpl struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &ClassRepositoryImpl{db: db}
}

func (r *ClassRepositoryImpl) Create(class *models.Class) error {
	return r.db.Create(class).Error
}

func (r *ClassRepositoryImpl) FindByID(id string) (*models.Class, error) {
	var class models.Class
	err := r.db.Preload("Subjects").First(&class, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepositoryImpl) FindBySchool(schoolID string, page, pageSize int) ([]models.Class, int64, error) {
	var classes []models.Class
	query := r.db.Model(&models.Class{}).Where("school_id = ?", schoolID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(page, pageSize)
	err := query.Order("grade_level ASC, section ASC").Limit(limit).Offset(offset).Find(&classes).Error
	return classes, total, err
}

func (r *ClassRepositoryImpl) Update(class *models.Class) error {
	result := r.db.Model(class).Updates(map[string]interface{}{
		"name":        class.Name,
		"grade_level": class.GradeLevel,
		"section":     class.Section,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *ClassRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Class{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *ClassRepositoryImpl) GradeAverages(classID string) ([]SubjectAverage, error) {
	var rows []SubjectAverage
	err := r.db.Model(&models.Grade{}).
		Select("grades.subject_id, subjects.name AS subject_name, AVG(grades.marks_obtained / NULLIF(grades.marks_total, 0) * 100) AS average, COUNT(*) AS entries").
		Joins("JOIN subjects ON subjects.id = grades.subject_id").
		Where("subjects.class_id = ?", classID).
		Group("grades.subject_id, subjects.name").
		Scan(&rows).Error
	return rows, err
}
