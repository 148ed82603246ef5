package invoice

import (
	"context"
	"time"

	"wmx/internal/domain"
)

type InvoiceRepositoryInterface interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	Update(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Invoice, error)
	ListAll(ctx context.Context, status string, page, limit int) ([]domain.Invoice, int64, error)
	ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error
}

type ProjectReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}

type Recorder interface {
	CreateActivity(ctx context.Context, a *domain.ActivityLog) error
	Create(ctx context.Context, n *domain.Notification) error
}

type MailQueue interface {
	Push(itemType string, priority int, data map[string]string)
}
