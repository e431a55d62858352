package repositories

import (
	"errors"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrGradeNotFound = errors.New("grade not found")

type GradeRepository interface {
	Create(grade *models.Grade) error
	FindByID(id string) (*models.Grade, error)
	FindByStudent(studentID string, criteria GradeCriteria) ([]models.Grade, int64, error)
	FindBySubject(subjectID string, criteria GradeCriteria) ([]models.Grade, int64, error)
	Update(grade *models.Grade) error
	Delete(id string) error
}

type GradeCriteria struct {
	ExamType string `form:"exam_type"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

type GradeRepositoryImpl struct {
	db *gorm.DB
}

func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &GradeRepositoryImpl{db: db}
}

func (r *GradeRepositoryImpl) Create(grade *models.Grade) error {
	return r.db.Create(grade).Error
}

func (r *GradeRepositoryImpl) FindByID(id string) (*models.Grade, error) {
	var grade models.Grade
	err := r.db.Preload("Subject").First(&grade, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}
	return &grade, nil
}

func (r *GradeRepositoryImpl) FindByStudent(studentID string, criteria GradeCriteria) ([]models.Grade, int64, error) {
	return r.findBy("student_id", studentID, criteria)
}

func (r *GradeRepositoryImpl) FindBySubject(subjectID string, criteria GradeCriteria) ([]models.Grade, int64, error) {
	return r.findBy("subject_id", subjectID, criteria)
}

func (r *GradeRepositoryImpl) findBy(column, value string, criteria GradeCriteria) ([]models.Grade, int64, error) {
	var grades []models.Grade
	query := r.db.Model(&models.Grade{}).Where(column+" = ?", value)

	if criteria.ExamType != "" {
		query = query.Where("exam_type = ?", criteria.ExamType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(criteria.Page, criteria.PageSize)
	err := query.Preload("Subject").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&grades).Error
	return grades, total, err
}

func (r *GradeRepositoryImpl) Update(grade *models.Grade) error {
	result := r.db.Model(grade).Updates(map[string]interface{}{
		"marks_obtained": grade.MarksObtained,
		"marks_total":    grade.MarksTotal,
		"remarks":        grade.Remarks,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGradeNotFound
	}
	return nil
}

func (r *GradeRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Grade{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGradeNotFound
	}
	return nil
}
