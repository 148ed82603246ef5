package notification

import (
	"context"

	"wmx/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	broadcastPage    = 200
)

type Service struct {
	repo  NotificationRepositoryInterface
	users UserLister
}

func NewService(repo NotificationRepositoryInterface, users UserLister) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, clampLimit(limit))
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead fails with ErrNotFound when the row does not exist or belongs to
// someone else; the two cases are indistinguishable on purpose.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Broadcast fans an announcement out to every user, optionally filtered by
// role. Pages through users so a large client base does not load at once.
func (s *Service) Broadcast(ctx context.Context, req BroadcastRequest) (int, error) {
	sent := 0
	for page := 1; ; page++ {
		users, _, err := s.users.List(ctx, req.Role, "", page, broadcastPage)
		if err != nil {
			return sent, err
		}
		if len(users) == 0 {
			return sent, nil
		}

		for i := range users {
			err := s.repo.Create(ctx, &domain.Notification{
				UserID: users[i].ID,
				Type:   domain.NotifAdminBroadcast,
				Title:  req.Title,
				Body:   req.Body,
				Link:   req.Link,
			})
			if err != nil {
				return sent, err
			}
			sent++
		}

		if len(users) < broadcastPage {
			return sent, nil
		}
	}
}

// ActivityForUser returns the audit entries that concern the given client.
func (s *Service) ActivityForUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error) {
	return s.repo.ListActivity(ctx, userID, clampLimit(limit))
}

// ActivityAll is the admin view across all users.
func (s *Service) ActivityAll(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	return s.repo.ListActivity(ctx, 0, clampLimit(limit))
}

func (s *Service) EmailLogs(ctx context.Context, limit int) ([]domain.EmailLog, error) {
	return s.repo.ListEmailLogs(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
