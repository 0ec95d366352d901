package repository

import (
	"context"

	"ylc-be-svc/internal/models"

	"gorm.io/gorm"
)

// NotificationLogRepository defines the interface for notification log data operations
type NotificationLogRepository interface {
	CreateNotificationLog(ctx context.Context, log *models.NotificationLog) error
	GetNotificationLogsByQuoteID(ctx context.Context, quoteID uint) ([]*models.NotificationLog, error)
}

// notificationLogRepository implements NotificationLogRepository
type notificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository creates a new instance of NotificationLogRepository
func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{
		db: db,
	}
}

// CreateNotificationLog creates a new notification log record
func (r *notificationLogRepository) CreateNotificationLog(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetNotificationLogsByQuoteID lists delivery attempts for a quote in insertion order
func (r *notificationLogRepository) GetNotificationLogsByQuoteID(ctx context.Context, quoteID uint) ([]*models.NotificationLog, error) {
	var logs []*models.NotificationLog

	err := r.db.WithContext(ctx).Where("quote_id = ?", quoteID).Order("id").Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
