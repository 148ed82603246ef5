package admin

import (
	"context"

	"wmx/internal/domain"
)

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	List(ctx context.Context, role string, query string, page, limit int) ([]domain.User, int64, error)
	CountByRole(ctx context.Context, role domain.UserRole) (int64, error)
}

type ProjectCounter interface {
	ListAll(ctx context.Context, page, limit int) ([]domain.Project, int64, error)
}

type InvoiceStats interface {
	Count(ctx context.Context, status domain.InvoiceStatus) (int64, error)
	SumPaidAmount(ctx context.Context) (int64, error)
}

type Recorder interface {
	CreateActivity(ctx context.Context, a *domain.ActivityLog) error
}
