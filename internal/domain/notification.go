package domain

import (
	"database/sql"
	"time"
)

// Notification type constants
const (
	NotifProjectStatus   = "project.status"
	NotifProjectComplete = "project.completed"
	NotifMilestoneDone   = "milestone.completed"
	NotifInvoiceIssued   = "invoice.issued"
	NotifInvoiceOverdue  = "invoice.overdue"
	NotifPaymentReceived = "payment.received"
	NotifNewMessage      = "chat.message"
	NotifAdminBroadcast  = "admin.broadcast"
)

// Notification is an append-only in-app alert for one user.
type Notification struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UserID int64  `gorm:"index" json:"user_id"`
	Type   string `gorm:"index" json:"type"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Link   string `json:"link,omitempty"`

	ReadAt    sql.NullTime `json:"read_at,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) IsRead() bool { return n.ReadAt.Valid }

// ActivityLog is the append-only audit trail.
type ActivityLog struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	ActorID  int64  `gorm:"index" json:"actor_id"`
	UserID   int64  `gorm:"index" json:"user_id"` // affected user, for client-scoped reads
	Action   string `gorm:"index" json:"action"`
	Entity   string `json:"entity"`
	EntityID int64  `json:"entity_id"`
	Detail   string `json:"detail,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

// EmailLog records every attempted transactional send.
type EmailLog struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"index" json:"user_id"`
	Recipient string `json:"recipient"`
	Template  string `gorm:"index" json:"template"`
	Subject   string `json:"subject"`
	Status    string `gorm:"index" json:"status"` // sent | failed | skipped
	Error     string `json:"error,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailLog) TableName() string { return "email_logs" }
