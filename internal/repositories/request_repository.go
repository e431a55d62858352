package repositories

import (
	"errors"
	"time"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRequestNotFound      = errors.New("request not found")
	ErrRequestAlreadyClosed = errors.New("request already decided")
)

// TeacherRequestRepository covers teacher subject applications.
type TeacherRequestRepository interface {
	Create(request *models.TeacherRequest) error
	FindByID(id string) (*models.TeacherRequest, error)
	FindBySchool(schoolID string, status models.RequestStatus, page, pageSize int) ([]models.TeacherRequest, int64, error)
	Decide(id string, status models.RequestStatus, decidedByID string) error
}

type TeacherRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewTeacherRequestRepository(db *gorm.DB) TeacherRequestRepository {
	return &TeacherRequestRepositoryImpl{db: db}
}

func (r *TeacherRequestRepositoryImpl) Create(request *models.TeacherRequest) error {
	return r.db.Create(request).Error
}

func (r *TeacherRequestRepositoryImpl) FindByID(id string) (*models.TeacherRequest, error) {
	var request models.TeacherRequest
	err := r.db.Preload("Applicant").Preload("Subject").First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *TeacherRequestRepositoryImpl) FindBySchool(schoolID string, status models.RequestStatus, page, pageSize int) ([]models.TeacherRequest, int64, error) {
	query := r.db.Model(&models.TeacherRequest{}).Where("school_id = ?", schoolID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.TeacherRequest
	limit, offset := Paginate(page, pageSize)
	err := query.Preload("Applicant").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&requests).Error
	return requests, total, err
}

// Decide flips a pending request. A request already approved or rejected is
// left untouched.
func (r *TeacherRequestRepositoryImpl) Decide(id string, status models.RequestStatus, decidedByID string) error {
	result := r.db.Model(&models.TeacherRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"decided_by_id": decidedByID,
			"decided_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestAlreadyClosed
	}
	return nil
}

// StudentRegistrationRepository covers public enrollment applications.
type StudentRegistrationRepository interface {
	Create(registration *models.StudentRegistration) error
	FindByID(id string) (*models.StudentRegistration, error)
	FindBySchool(schoolID string, status models.RequestStatus, page, pageSize int) ([]models.StudentRegistration, int64, error)
	Decide(id string, status models.RequestStatus, decidedByID string) error
}

type StudentRegistrationRepositoryImpl struct {
	db *gorm.DB
}

func NewStudentRegistrationRepository(db *gorm.DB) StudentRegistrationRepository {
	return &StudentRegistrationRepositoryImpl{db: db}
}

func (r *StudentRegistrationRepositoryImpl) Create(registration *models.StudentRegistration) error {
	return r.db.Create(registration).Error
}

func (r *StudentRegistrationRepositoryImpl) FindByID(id string) (*models.StudentRegistration, error) {
	var registration models.StudentRegistration
	err := r.db.Preload("Class").First(&registration, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &registration, nil
}

func (r *StudentRegistrationRepositoryImpl) FindBySchool(schoolID string, status models.RequestStatus, page, pageSize int) ([]models.StudentRegistration, int64, error) {
	query := r.db.Model(&models.StudentRegistration{}).Where("school_id = ?", schoolID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var registrations []models.StudentRegistration
	limit, offset := Paginate(page, pageSize)
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&registrations).Error
	return registrations, total, err
}

func (r *StudentRegistrationRepositoryImpl) Decide(id string, status models.RequestStatus, decidedByID string) error {
	result := r.db.Model(&models.StudentRegistration{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"decided_by_id": decidedByID,
			"decided_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestAlreadyClosed
	}
	return nil
}
