package workers

import (
	"context"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/repositories"
)

const (
	cleanupInterval       = time.Hour
	notificationRetention = 90 * 24 * time.Hour
)

// MaintenanceWorker удаляет протухшие refresh-токены и старые уведомления.
type MaintenanceWorker struct {
	tokenRepo repositories.RefreshTokenRepository
	notifRepo repositories.NotificationRepository
}

func NewMaintenanceWorker(
	tokenRepo repositories.RefreshTokenRepository,
	notifRepo repositories.NotificationRepository,
) *MaintenanceWorker {
	return &MaintenanceWorker{
		tokenRepo: tokenRepo,
		notifRepo: notifRepo,
	}
}

func (w *MaintenanceWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *MaintenanceWorker) run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("maintenance worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *MaintenanceWorker) cleanup() {
	removed, err := w.tokenRepo.DeleteExpired()
	logger.WorkerLog("maintenance", "delete expired refresh tokens", err)
	if err == nil && removed > 0 {
		logger.Info("expired refresh tokens removed", "count", removed)
	}

	cutoff := time.Now().Add(-notificationRetention)
	removed, err = w.notifRepo.DeleteOlderThan(cutoff)
	logger.WorkerLog("maintenance", "delete old notifications", err)
	if err == nil && removed > 0 {
		logger.Info("old notifications removed", "count", removed)
	}
}
