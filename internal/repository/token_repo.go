package repository

import (
	"context"
	"time"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) DB() *gorm.DB { return r.db }

// ---- email verification codes ----

// ReplaceVerification drops previous codes for the user before storing the
// new one, so only the latest emailed code is ever valid.
func (r *TokenRepository) ReplaceVerification(ctx context.Context, v *domain.EmailVerification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", v.UserID).Delete(&domain.EmailVerification{}).Error; err != nil {
			return err
		}
		return tx.Create(v).Error
	})
}

func (r *TokenRepository) LatestVerification(ctx context.Context, userID int64) (*domain.EmailVerification, error) {
	var v domain.EmailVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *TokenRepository) IncrementVerificationAttempts(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.EmailVerification{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// ConsumeVerification marks the code used and activates the user in one
// transaction so a crash between the writes cannot leave a half-verified
// account.
func (r *TokenRepository) ConsumeVerification(ctx context.Context, verificationID, userID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.EmailVerification{}).
			Where("id = ? AND used = ?", verificationID, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&domain.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{
				"is_active":      true,
				"email_verified": true,
				"verified_at":    now,
			}).Error
	})
}

// ---- password reset tokens ----

func (r *TokenRepository) CreateReset(ctx context.Context, t *domain.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepository) GetResetByHash(ctx context.Context, hash string) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) IncrementResetAttempts(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.PasswordResetToken{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// ConsumeReset flips used exactly once; the guard on used=false makes a second
// consume report no rows.
func (r *TokenRepository) ConsumeReset(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.PasswordResetToken{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	return tx.RowsAffected > 0, tx.Error
}

// ---- magic link tokens ----

func (r *TokenRepository) CreateMagicLink(ctx context.Context, t *domain.MagicLinkToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepository) GetMagicLinkByHash(ctx context.Context, hash string) (*domain.MagicLinkToken, error) {
	var t domain.MagicLinkToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) ConsumeMagicLink(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.MagicLinkToken{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	return tx.RowsAffected > 0, tx.Error
}

// DeleteExpired purges dead tokens of all three kinds; run from cmd/cleanup.
func (r *TokenRepository) DeleteExpired(ctx context.Context) error {
	now := time.Now()
	db := r.db.WithContext(ctx)
	if err := db.Where("expires_at < ? OR used = ?", now, true).Delete(&domain.EmailVerification{}).Error; err != nil {
		return err
	}
	if err := db.Where("expires_at < ? OR used = ?", now, true).Delete(&domain.PasswordResetToken{}).Error; err != nil {
		return err
	}
	return db.Where("expires_at < ? OR used = ?", now, true).Delete(&domain.MagicLinkToken{}).Error
}
