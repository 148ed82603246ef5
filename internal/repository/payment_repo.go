package repository

import (
	"context"
	"time"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) DB() *gorm.DB { return r.db }

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// UpdateStatusIfChanged writes the mapped gateway state only when it differs
// from the stored status. Returns true when a row was actually updated, which
// is what gates side effects on webhook re-delivery.
func (r *PaymentRepository) UpdateStatusIfChanged(ctx context.Context, orderID string, status domain.PaymentStatus, gatewayStatus, rawNotification string, paidAt *time.Time) (bool, error) {
	updates := map[string]any{
		"status":           status,
		"gateway_status":   gatewayStatus,
		"raw_notification": rawNotification,
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}

	tx := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("order_id = ? AND status <> ?", orderID, status).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
