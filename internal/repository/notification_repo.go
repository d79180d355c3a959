package repository

import (
	"context"

	"gorm.io/gorm"

	"aligate/internal/models"
)

// NotificationRepository handles the notification audit log.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification log row.
func (r *NotificationRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindRecent returns the most recent notification log rows.
func (r *NotificationRepository) FindRecent(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.NotificationLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
