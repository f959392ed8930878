package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/socialnet/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotifications(ctx context.Context, notifications []*models.Notification) ([]*models.Notification, error)
	GetByRecipientID(ctx context.Context, recipientID uint, offset, limit int) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// CreateNotifications inserts the batch in one statement. If that fails it
// falls back to one insert per record so a bad row does not block the rest.
// It returns the records that were stored.
func (r *postgresNotificationRepository) CreateNotifications(ctx context.Context, notifications []*models.Notification) ([]*models.Notification, error) {
	if len(notifications) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Create(&notifications).Error; err == nil {
		return notifications, nil
	}

	stored := make([]*models.Notification, 0, len(notifications))
	var errs []error
	for _, n := range notifications {
		n.ID = 0
		if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
			errs = append(errs, err)
			continue
		}
		stored = append(stored, n)
	}
	return stored, errors.Join(errs...)
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead only touches notifications owned by recipientID
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID uint) error {
	var n models.Notification
	if err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&n).Error; err != nil {
		return translate(err)
	}
	if n.Read {
		return nil
	}
	return r.db.WithContext(ctx).Model(&n).Update("read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
