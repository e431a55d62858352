package repositories

import (
	"errors"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubjectNotFound = errors.New("subject not found")

type SubjectRepository interface {
	Create(subject *models.Subject) error
	FindByID(id string) (*models.Subject, error)
	FindByClass(classID string) ([]models.Subject, error)
	FindByTeacher(teacherID string) ([]models.Subject, error)
	FindBySchool(schoolID string, page, pageSize int) ([]models.Subject, int64, error)
	Update(subject *models.Subject) error
	AssignTeacher(subjectID, teacherID string) error
	Delete(id string) error
	AssignmentCounts(schoolID string) ([]SubjectAssignmentCount, error)
}

type SubjectAssignmentCount struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Count       int64  `json:"count"`
}

type SubjectRepositoryImpl struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &SubjectRepositoryImpl{db: db}
}

func (r *SubjectRepositoryImpl) Create(subject *models.Subject) error {
	return r.db.Create(subject).Error
}

func (r *SubjectRepositoryImpl) FindByID(id string) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.Preload("Teacher").First(&subject, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepositoryImpl) FindByClass(classID string) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Where("class_id = ?", classID).Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepositoryImpl) FindByTeacher(teacherID string) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Where("teacher_id = ?", teacherID).Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepositoryImpl) FindBySchool(schoolID string, page, pageSize int) ([]models.Subject, int64, error) {
	var subjects []models.Subject
	query := r.db.Model(&models.Subject{}).Where("school_id = ?", schoolID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(page, pageSize)
	err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&subjects).Error
	return subjects, total, err
}

func (r *SubjectRepositoryImpl) Update(subject *models.Subject) error {
	result := r.db.Model(subject).Updates(map[string]interface{}{
		"name":     subject.Name,
		"code":     subject.Code,
		"sessions": subject.Sessions,
		"days":     subject.Days,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepositoryImpl) AssignTeacher(subjectID, teacherID string) error {
	result := r.db.Model(&models.Subject{}).Where("id = ?", subjectID).Update("teacher_id", teacherID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Subject{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepositoryImpl) AssignmentCounts(schoolID string) ([]SubjectAssignmentCount, error) {
	var rows []SubjectAssignmentCount
	err := r.db.Model(&models.Assignment{}).
		Select("assignments.subject_id, subjects.name AS subject_name, COUNT(*) AS count").
		Joins("JOIN subjects ON subjects.id = assignments.subject_id").
		Where("assignments.school_id = ?", schoolID).
		Group("assignments.subject_id, subjects.name").
		Scan(&rows).Error
	return rows, err
}
