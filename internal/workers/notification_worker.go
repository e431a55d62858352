package workers

import (
	"context"
	"time"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services"
)

const readRetention = 30 * 24 * time.Hour

// NotificationWorker purges expired notifications and read notifications
// past the retention window.
type NotificationWorker struct {
	notificationService services.NotificationService
	notificationRepo    repositories.NotificationRepository
	interval            time.Duration
}

func NewNotificationWorker(
	notificationService services.NotificationService,
	notificationRepo repositories.NotificationRepository,
) *NotificationWorker {
	return &NotificationWorker{
		notificationService: notificationService,
		notificationRepo:    notificationRepo,
		interval:            1 * time.Hour,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	go w.cleanupLoop(ctx)
}

func (w *NotificationWorker) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *NotificationWorker) runCleanup() {
	expired, err := w.notificationService.DeleteExpired()
	logger.WorkerLog("notification", "delete_expired", err)
	if err == nil && expired > 0 {
		logger.Info("purged expired notifications", "count", expired)
	}

	old, err := w.notificationRepo.DeleteReadOlderThan(time.Now().Add(-readRetention))
	logger.WorkerLog("notification", "delete_old_read", err)
	if err == nil && old > 0 {
		logger.Info("purged old read notifications", "count", old)
	}
}
