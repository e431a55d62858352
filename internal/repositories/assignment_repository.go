package repositories

import (
	"errors"
	"time"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

type AssignmentRepository interface {
	Create(assignment *models.Assignment) error
	FindByID(id string) (*models.Assignment, error)
	FindByClass(classID string, criteria AssignmentCriteria) ([]models.Assignment, int64, error)
	FindByTeacher(teacherID string, criteria AssignmentCriteria) ([]models.Assignment, int64, error)
	Update(assignment *models.Assignment) error
	Delete(id string) error
}

type AssignmentCriteria struct {
	SubjectID string    `form:"subject_id"`
	DueAfter  time.Time `form:"due_after"`
	DueBefore time.Time `form:"due_before"`
	Page      int       `form:"page" binding:"min=0"`
	PageSize  int       `form:"page_size" binding:"min=0,max=100"`
}

type AssignmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &AssignmentRepositoryImpl{db: db}
}

func (r *AssignmentRepositoryImpl) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

func (r *AssignmentRepositoryImpl) FindByID(id string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.Preload("Subject").First(&assignment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepositoryImpl) FindByClass(classID string, criteria AssignmentCriteria) ([]models.Assignment, int64, error) {
	return r.findBy("class_id", classID, criteria)
}

func (r *AssignmentRepositoryImpl) FindByTeacher(teacherID string, criteria AssignmentCriteria) ([]models.Assignment, int64, error) {
	return r.findBy("teacher_id", teacherID, criteria)
}

func (r *AssignmentRepositoryImpl) findBy(column, value string, criteria AssignmentCriteria) ([]models.Assignment, int64, error) {
	var assignments []models.Assignment
	query := r.db.Model(&models.Assignment{}).Where(column+" = ?", value)

	if criteria.SubjectID != "" {
		query = query.Where("subject_id = ?", criteria.SubjectID)
	}
	if !criteria.DueAfter.IsZero() {
		query = query.Where("due_date >= ?", criteria.DueAfter)
	}
	if !criteria.DueBefore.IsZero() {
		query = query.Where("due_date <= ?", criteria.DueBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(criteria.Page, criteria.PageSize)
	err := query.Preload("Subject").Order("due_date ASC").
		Limit(limit).Offset(offset).Find(&assignments).Error
	return assignments, total, err
}

func (r *AssignmentRepositoryImpl) Update(assignment *models.Assignment) error {
	result := r.db.Model(assignment).Updates(map[string]interface{}{
		"title":          assignment.Title,
		"description":    assignment.Description,
		"due_date":       assignment.DueDate,
		"max_marks":      assignment.MaxMarks,
		"attachment_url": assignment.AttachmentURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Assignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
