package domain

import (
	"database/sql"
	"time"
)

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleClient UserRole = "CLIENT"
)

// User is a portal account. Credential signups stay inactive until the emailed
// verification code is confirmed; OAuth/magic-link users are active from the
// first login.
type User struct {
	ID           int64    `gorm:"primaryKey" json:"id"`
	Email        string   `gorm:"uniqueIndex" json:"email"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	Company      string   `json:"company,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Role         UserRole `gorm:"index;default:CLIENT" json:"role"`
	AvatarURL    string   `json:"avatar_url,omitempty"`

	IsActive      bool         `gorm:"default:false" json:"is_active"`
	EmailVerified bool         `gorm:"default:false" json:"email_verified"`
	VerifiedAt    sql.NullTime `json:"verified_at,omitempty"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	// Notification preferences. UnsubscribeToken lets the public unsubscribe
	// link flip EmailNotifications without a session.
	EmailNotifications bool   `gorm:"default:true" json:"email_notifications"`
	ProjectUpdates     bool   `gorm:"default:true" json:"project_updates"`
	InvoiceReminders   bool   `gorm:"default:true" json:"invoice_reminders"`
	ChatNotifications  bool   `gorm:"default:true" json:"chat_notifications"`
	UnsubscribeToken   string `gorm:"uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
