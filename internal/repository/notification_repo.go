package repository

import (
	"context"
	"database/sql"
	"time"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead only touches the caller's own rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", sql.NullTime{Time: time.Now(), Valid: true})
	return tx.RowsAffected > 0, tx.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", sql.NullTime{Time: time.Now(), Valid: true}).Error
}

// ---- activity log ----

func (r *NotificationRepository) CreateActivity(ctx context.Context, a *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *NotificationRepository) ListActivity(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error) {
	q := r.db.WithContext(ctx).Model(&domain.ActivityLog{})
	if userID > 0 {
		q = q.Where("user_id = ?", userID)
	}

	var logs []domain.ActivityLog
	err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// ---- email log ----

func (r *NotificationRepository) CreateEmailLog(ctx context.Context, e *domain.EmailLog) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *NotificationRepository) ListEmailLogs(ctx context.Context, limit int) ([]domain.EmailLog, error) {
	var logs []domain.EmailLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
