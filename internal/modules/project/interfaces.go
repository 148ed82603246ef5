package project

import (
	"context"

	"wmx/internal/domain"
)

type ProjectRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Project, error)
	ListAll(ctx context.Context, page, limit int) ([]domain.Project, int64, error)
	Delete(ctx context.Context, id int64) error

	CreateMilestone(ctx context.Context, m *domain.Milestone) error
	UpdateMilestone(ctx context.Context, m *domain.Milestone) error
	GetMilestone(ctx context.Context, id int64) (*domain.Milestone, error)
	DeleteMilestone(ctx context.Context, id int64) error
	NextMilestoneOrder(ctx context.Context, projectID int64) (int, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Recorder covers the fire-and-forget side effects: audit rows and in-app
// notifications. Failures are logged by the service, never propagated.
type Recorder interface {
	CreateActivity(ctx context.Context, a *domain.ActivityLog) error
	Create(ctx context.Context, n *domain.Notification) error
}

// MailQueue buffers the client-facing status email for the cron drain.
type MailQueue interface {
	Push(itemType string, priority int, data map[string]string)
}
