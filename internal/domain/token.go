package domain

import "time"

// EmailVerification holds one 6-digit signup code, hashed at rest. A code is
// consumed at most once and rejected after expiry or 5 failed attempts.
type EmailVerification struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	UserID   int64  `gorm:"index" json:"user_id"`
	CodeHash string `json:"-"`
	Attempts int    `json:"attempts"`
	Used     bool   `json:"used"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailVerification) TableName() string { return "email_verifications" }

func (v *EmailVerification) Expired(now time.Time) bool { return !v.ExpiresAt.After(now) }

// PasswordResetToken is single-use and time-boxed. Expiry wins over used-state
// when both apply.
type PasswordResetToken struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"index" json:"user_id"`
	TokenHash string `gorm:"uniqueIndex" json:"-"`
	Attempts  int    `json:"attempts"`
	Used      bool   `json:"used"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

func (t *PasswordResetToken) Expired(now time.Time) bool { return !t.ExpiresAt.After(now) }

// MagicLinkToken backs passwordless login links.
type MagicLinkToken struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"index" json:"user_id"`
	TokenHash string `gorm:"uniqueIndex" json:"-"`
	Used      bool   `json:"used"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MagicLinkToken) TableName() string { return "magic_link_tokens" }

func (t *MagicLinkToken) Expired(now time.Time) bool { return !t.ExpiresAt.After(now) }

// AllModels lists every table for AutoMigrate in tests, seeds and dev runs.
func AllModels() []any {
	return []any{
		&User{},
		&Project{},
		&Milestone{},
		&Invoice{},
		&Payment{},
		&Message{},
		&Attachment{},
		&PortfolioItem{},
		&PortfolioImage{},
		&ServiceOffering{},
		&Notification{},
		&ActivityLog{},
		&EmailLog{},
		&EmailVerification{},
		&PasswordResetToken{},
		&MagicLinkToken{},
	}
}
