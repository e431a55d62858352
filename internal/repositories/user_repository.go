package repositories

import (
	"errors"
	"strings"

	"schoolhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserDuplicate  = errors.New("user with this email already exists")
	ErrSchoolMismatch = errors.New("user belongs to another school")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindBySchool(schoolID string, criteria UserCriteria) ([]models.User, int64, error)
	FindByClass(classID string, role models.UserRole) ([]models.User, error)
	FindByIDs(ids []string) ([]models.User, error)
	Update(user *models.User) error
	UpdatePassword(id string, passwordHash string) error
	UpdateStatus(id string, status models.UserStatus) error
	Delete(id string) error
	CountByRole(schoolID string) (map[string]int64, error)
	ExistsAdmin() (bool, error)
}

type UserCriteria struct {
	Role     string `form:"role"`
	Status   string `form:"status"`
	ClassID  string `form:"class_id"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	err := r.db.Create(user).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrUserDuplicate
	}
	return err
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "lower(email) = lower(?)", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindBySchool(schoolID string, criteria UserCriteria) ([]models.User, int64, error) {
	var users []models.User
	query := r.db.Model(&models.User{}).Where("school_id = ?", schoolID)

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.ClassID != "" {
		query = query.Where("class_id = ?", criteria.ClassID)
	}
	if criteria.Search != "" {
		like := "%" + strings.ToLower(criteria.Search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := Paginate(criteria.Page, criteria.PageSize)
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) FindByClass(classID string, role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("class_id = ? AND role = ?", classID, role).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) FindByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	result := r.db.Model(user).Updates(map[string]interface{}{
		"name":        user.Name,
		"status":      user.Status,
		"class_id":    user.ClassID,
		"is_verified": user.IsVerified,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePassword(id string, passwordHash string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateStatus(id string, status models.UserStatus) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user and, through the FK constraint, every
// notification addressed to them.
func (r *UserRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) CountByRole(schoolID string) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.Model(&models.User{}).Where("school_id = ?", schoolID).
		Select("role, COUNT(*) as count").
		Group("role").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *UserRepositoryImpl) ExistsAdmin() (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error
	return count > 0, err
}
