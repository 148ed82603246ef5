package admin

import (
	"context"
	"errors"
	"log"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

// QueueLen reports how many emails wait for the next cron drain.
type QueueLen interface {
	Len() int
}

// OnlineCounter reports live websocket connections.
type OnlineCounter interface {
	OnlineCount() int
}

type Service struct {
	users    UserRepositoryInterface
	projects ProjectCounter
	invoices InvoiceStats
	recorder Recorder
	queue    QueueLen
	online   OnlineCounter
	blocked  func() []string
}

func NewService(users UserRepositoryInterface, projects ProjectCounter, invoices InvoiceStats, recorder Recorder, queue QueueLen, online OnlineCounter, blocked func() []string) *Service {
	return &Service{
		users:    users,
		projects: projects,
		invoices: invoices,
		recorder: recorder,
		queue:    queue,
		online:   online,
		blocked:  blocked,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.Clients, err = s.users.CountByRole(ctx, domain.RoleClient); err != nil {
		return nil, err
	}
	if stats.Admins, err = s.users.CountByRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, stats.Projects, err = s.projects.ListAll(ctx, 1, 1); err != nil {
		return nil, err
	}
	if stats.PendingInvoices, err = s.invoices.Count(ctx, domain.InvoicePending); err != nil {
		return nil, err
	}
	if stats.OverdueInvoices, err = s.invoices.Count(ctx, domain.InvoiceOverdue); err != nil {
		return nil, err
	}
	if stats.PaidInvoices, err = s.invoices.Count(ctx, domain.InvoicePaid); err != nil {
		return nil, err
	}
	if stats.RevenueMinor, err = s.invoices.SumPaidAmount(ctx); err != nil {
		return nil, err
	}

	stats.OnlineUsers = s.online.OnlineCount()
	stats.BlockedIPs = len(s.blocked())
	stats.QueuedEmails = s.queue.Len()
	return stats, nil
}

func (s *Service) ListUsers(ctx context.Context, role, query string, page, limit int) ([]domain.User, int64, error) {
	return s.users.List(ctx, role, query, page, limit)
}

// ChangeRole promotes or demotes a user. The last remaining admin cannot be
// demoted.
func (s *Service) ChangeRole(ctx context.Context, actorID, userID int64, role string) (*domain.User, error) {
	newRole := domain.UserRole(role)
	if newRole != domain.RoleAdmin && newRole != domain.RoleClient {
		return nil, ErrBadRole
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role == domain.RoleAdmin && newRole != domain.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]any{"role": newRole}); err != nil {
		return nil, err
	}
	user.Role = newRole

	s.record(ctx, actorID, userID, "user.role_changed", string(newRole))
	return user, nil
}

func (s *Service) SetActive(ctx context.Context, actorID, userID int64, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !active && user.Role == domain.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]any{"is_active": active}); err != nil {
		return nil, err
	}
	user.IsActive = active

	action := "user.deactivated"
	if active {
		action = "user.activated"
	}
	s.record(ctx, actorID, userID, action, user.Email)
	return user, nil
}

func (s *Service) ensureNotLastAdmin(ctx context.Context) error {
	admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *Service) record(ctx context.Context, actorID, userID int64, action, detail string) {
	err := s.recorder.CreateActivity(ctx, &domain.ActivityLog{
		ActorID:  actorID,
		UserID:   userID,
		Action:   action,
		Entity:   "user",
		EntityID: userID,
		Detail:   detail,
	})
	if err != nil {
		log.Printf("activity_log_failed action=%s user=%d err=%v", action, userID, err)
	}
}
