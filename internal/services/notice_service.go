package services

import (
	"errors"
	"time"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type NoticeService interface {
	CreateNotice(authorID, schoolID string, req *dto.CreateNoticeRequest) (*models.Notice, error)
	GetNotice(id string) (*models.Notice, error)
	ListNotices(schoolID string, viewerRole models.UserRole, page, pageSize int) (*dto.PagedResponse, error)
	DeleteNotice(id string) error
}

type noticeService struct {
	noticeRepo   repositories.NoticeRepository
	userRepo     repositories.UserRepository
	notification NotificationService
}

func NewNoticeService(
	noticeRepo repositories.NoticeRepository,
	userRepo repositories.UserRepository,
	notification NotificationService,
) NoticeService {
	return &noticeService{
		noticeRepo:   noticeRepo,
		userRepo:     userRepo,
		notification: notification,
	}
}

// CreateNotice publishes a notice and announces it to the audience.
func (s *noticeService) CreateNotice(authorID, schoolID string, req *dto.CreateNoticeRequest) (*models.Notice, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	notice := &models.Notice{
		Title:    req.Title,
		Body:     req.Body,
		Audience: req.Audience,
		SchoolID: schoolID,
		AuthorID: authorID,
		Date:     date,
	}
	if err := s.noticeRepo.Create(notice); err != nil {
		return nil, apperrors.InternalError(err)
	}

	recipientIDs, err := s.audienceIDs(schoolID, req.Audience)
	if err != nil {
		logger.WithError(err).Warn("audience lookup failed, skipping notice notifications", "notice_id", notice.ID)
		return notice, nil
	}

	if len(recipientIDs) > 0 {
		if err := s.notification.NotifyNotice(recipientIDs, notice.Title, notice.ID); err != nil {
			logger.WithError(err).Warn("notice notifications failed", "notice_id", notice.ID)
		}
	}

	return notice, nil
}

func (s *noticeService) audienceIDs(schoolID string, audience models.NoticeAudience) ([]string, error) {
	var roles []string
	switch audience {
	case models.NoticeAudienceTeachers:
		roles = []string{string(models.UserRoleTeacher)}
	case models.NoticeAudienceStudents:
		roles = []string{string(models.UserRoleStudent)}
	default:
		roles = []string{string(models.UserRoleTeacher), string(models.UserRoleStudent)}
	}

	var ids []string
	for _, role := range roles {
		for page := 1; ; page++ {
			users, _, err := s.userRepo.FindBySchool(schoolID, repositories.UserCriteria{
				Role:     role,
				Page:     page,
				PageSize: repositories.MaxPageSize,
			})
			if err != nil {
				return nil, err
			}
			for i := range users {
				ids = append(ids, users[i].ID)
			}
			if len(users) < repositories.MaxPageSize {
				break
			}
		}
	}
	return ids, nil
}

func (s *noticeService) GetNotice(id string) (*models.Notice, error) {
	notice, err := s.noticeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNoticeNotFound) {
			return nil, apperrors.ErrNoticeNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return notice, nil
}

func (s *noticeService) ListNotices(schoolID string, viewerRole models.UserRole, page, pageSize int) (*dto.PagedResponse, error) {
	audience := models.NoticeAudienceAll
	switch viewerRole {
	case models.UserRoleTeacher:
		audience = models.NoticeAudienceTeachers
	case models.UserRoleStudent:
		audience = models.NoticeAudienceStudents
	}

	notices, total, err := s.noticeRepo.FindBySchool(schoolID, audience, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PagedResponse{Items: notices, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *noticeService) DeleteNotice(id string) error {
	if err := s.noticeRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNoticeNotFound) {
			return apperrors.ErrNoticeNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
