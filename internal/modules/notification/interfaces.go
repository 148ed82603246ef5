package notification

import (
	"context"

	"wmx/internal/domain"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) error
	ListActivity(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error)
	ListEmailLogs(ctx context.Context, limit int) ([]domain.EmailLog, error)
}

type UserLister interface {
	List(ctx context.Context, role string, query string, page, limit int) ([]domain.User, int64, error)
}
