package payment

import (
	"context"
	"time"

	"wmx/internal/domain"
)

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.Payment, error)
	UpdateStatusIfChanged(ctx context.Context, orderID string, status domain.PaymentStatus, gatewayStatus, rawNotification string, paidAt *time.Time) (bool, error)
}

type InvoiceStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, role string, query string, page, limit int) ([]domain.User, int64, error)
}

type Recorder interface {
	CreateActivity(ctx context.Context, a *domain.ActivityLog) error
	Create(ctx context.Context, n *domain.Notification) error
}

type MailQueue interface {
	Push(itemType string, priority int, data map[string]string)
}

type TransactionCreator interface {
	Enabled() bool
	ClientKey() string
	CreateTransaction(ctx context.Context, orderID string, amount int64, customerName, customerEmail string) (*TransactionResult, error)
	TransactionStatus(ctx context.Context, orderID string) (*StatusResult, error)
}
