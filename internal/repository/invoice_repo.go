package repository

import (
	"context"
	"time"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) ListAll(ctx context.Context, status string, page, limit int) ([]domain.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Invoice{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []domain.Invoice
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&invoices).Error
	return invoices, total, err
}

// ListPendingDueBefore returns pending invoices whose due date has passed,
// for the overdue sweep.
func (r *InvoiceRepository) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", domain.InvoicePending, cutoff).
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *InvoiceRepository) SumPaidAmount(ctx context.Context) (int64, error) {
	var sum *int64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status = ?", domain.InvoicePaid).
		Select("SUM(amount)").
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

func (r *InvoiceRepository) Count(ctx context.Context, status domain.InvoiceStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Invoice{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}
