package domain

import "time"

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentDenied    PaymentStatus = "denied"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentExpired   PaymentStatus = "expired"
	PaymentFailed    PaymentStatus = "failed"
)

// Invoice transitions to paid only through a confirmed gateway status.
type Invoice struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	Number    string        `gorm:"uniqueIndex" json:"number"`
	ProjectID int64         `gorm:"index" json:"project_id"`
	ClientID  int64         `gorm:"index" json:"client_id"`
	Amount    int64         `json:"amount"` // minor units
	Currency  string        `gorm:"default:IDR" json:"currency"`
	Status    InvoiceStatus `gorm:"index;default:draft" json:"status"`
	Notes     string        `json:"notes,omitempty"`
	DueDate   *time.Time    `json:"due_date,omitempty"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`

	LastReminderAt *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) Payable() bool {
	return i.Status == InvoicePending || i.Status == InvoiceOverdue
}

// Payment mirrors one gateway transaction for an invoice, keyed by the
// generated order id.
type Payment struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	OrderID   string        `gorm:"uniqueIndex" json:"order_id"`
	InvoiceID int64         `gorm:"index" json:"invoice_id"`
	ClientID  int64         `gorm:"index" json:"client_id"`
	Amount    int64         `json:"amount"`
	Status    PaymentStatus `gorm:"index;default:pending" json:"status"`

	GatewayToken       string `json:"-"`
	GatewayRedirectURL string `json:"-"`
	GatewayStatus      string `json:"gateway_status,omitempty"`
	RawNotification    string `json:"-"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
