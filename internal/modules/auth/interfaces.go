package auth

import (
	"context"

	"wmx/internal/domain"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUnsubscribeToken(ctx context.Context, token string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// TokenRepositoryInterface — verification codes, reset and magic-link tokens
type TokenRepositoryInterface interface {
	ReplaceVerification(ctx context.Context, v *domain.EmailVerification) error
	LatestVerification(ctx context.Context, userID int64) (*domain.EmailVerification, error)
	IncrementVerificationAttempts(ctx context.Context, id int64) error
	ConsumeVerification(ctx context.Context, verificationID, userID int64) error

	CreateReset(ctx context.Context, t *domain.PasswordResetToken) error
	GetResetByHash(ctx context.Context, hash string) (*domain.PasswordResetToken, error)
	IncrementResetAttempts(ctx context.Context, id int64) error
	ConsumeReset(ctx context.Context, id int64) (bool, error)

	CreateMagicLink(ctx context.Context, t *domain.MagicLinkToken) error
	GetMagicLinkByHash(ctx context.Context, hash string) (*domain.MagicLinkToken, error)
	ConsumeMagicLink(ctx context.Context, id int64) (bool, error)
}

// Mailer — the transactional sends auth triggers
type Mailer interface {
	SendWelcome(ctx context.Context, user *domain.User) error
	SendVerificationCode(ctx context.Context, user *domain.User, code string) error
	SendMagicLink(ctx context.Context, user *domain.User, token string) error
	SendPasswordReset(ctx context.Context, user *domain.User, token string) error
}
