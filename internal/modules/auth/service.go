package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"wmx/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
	maxCodeAttempts        = 5
	maxResetAttempts       = 5
)

type jwtService interface {
	GenerateToken(userID int64, role domain.UserRole) (string, error)
}

// identityProvider — the OAuth slice the service depends on
type identityProvider interface {
	Enabled() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthIdentity, error)
}

// Service contains all business logic for authentication
type Service struct {
	users      UserRepositoryInterface
	tokens     TokenRepositoryInterface
	jwt        jwtService
	mailer     Mailer
	oauth      identityProvider
	codePepper string

	verifyCodeTTL time.Duration
	resetTTL      time.Duration
	magicLinkTTL  time.Duration
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func NewService(
	users UserRepositoryInterface,
	tokens TokenRepositoryInterface,
	jwt jwtService,
	mailer Mailer,
	oauth identityProvider,
	codePepper string,
	verifyCodeTTL time.Duration,
	resetTTL time.Duration,
	magicLinkTTL time.Duration,
) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		jwt:           jwt,
		mailer:        mailer,
		oauth:         oauth,
		codePepper:    codePepper,
		verifyCodeTTL: verifyCodeTTL,
		resetTTL:      resetTTL,
		magicLinkTTL:  magicLinkTTL,
	}
}

// Register creates an inactive CLIENT account and emails the verification
// code. If the code email cannot be sent the fresh account is rolled back so
// the address is not stuck half-registered.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:     string(hash),
		Name:             req.Name,
		Company:          req.Company,
		Phone:            req.Phone,
		Role:             domain.RoleClient,
		IsActive:         false,
		UnsubscribeToken: uuid.NewString(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueVerificationCode(ctx, user); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			log.Printf("signup_rollback_failed user_id=%d err=%v", user.ID, delErr)
		}
		return nil, fmt.Errorf("send verification code: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// VerifyEmail consumes the 6-digit code and activates the account. A second
// verification for an already-active user is a conflict, not a success.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	v, err := s.tokens.LatestVerification(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	if v.Used {
		return ErrInvalidCode
	}
	if v.Expired(time.Now()) {
		return ErrCodeExpired
	}
	if v.Attempts >= maxCodeAttempts {
		return ErrTooManyAttempts
	}

	if v.CodeHash != s.hashWithPepper(code) {
		if err := s.tokens.IncrementVerificationAttempts(ctx, v.ID); err != nil {
			return err
		}
		return ErrInvalidCode
	}

	if err := s.tokens.ConsumeVerification(ctx, v.ID, user.ID); err != nil {
		return err
	}

	// best effort
	if err := s.mailer.SendWelcome(ctx, user); err != nil {
		log.Printf("welcome_email_failed user_id=%d err=%v", user.ID, err)
	}
	return nil
}

// ResendCode reissues the signup code for a not-yet-verified account.
func (s *Service) ResendCode(ctx context.Context, email string) error {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	return s.issueVerificationCode(ctx, user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}
	if !user.IsActive {
		return nil, ErrEmailNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		failed := user.FailedLoginAttempts + 1
		fields := map[string]any{"failed_login_attempts": failed}
		if failed >= maxFailedLoginAttempts {
			fields["locked_until"] = now.Add(lockoutDuration)
		}
		if updateErr := s.users.UpdateFields(ctx, user.ID, fields); updateErr != nil {
			return nil, updateErr
		}
		if failed >= maxFailedLoginAttempts {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}); err != nil {
			return nil, err
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

// RequestMagicLink emails a single-use sign-in link. An unknown address is
// reported as success so the endpoint cannot be used to enumerate accounts.
func (s *Service) RequestMagicLink(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw := uuid.NewString()
	if err := s.tokens.CreateMagicLink(ctx, &domain.MagicLinkToken{
		UserID:    user.ID,
		TokenHash: s.hashWithPepper(raw),
		ExpiresAt: time.Now().Add(s.magicLinkTTL),
	}); err != nil {
		return err
	}
	return s.mailer.SendMagicLink(ctx, user, raw)
}

// ConsumeMagicLink exchanges a valid link token for a session. First use of a
// link also activates a never-verified account (passwordless signups).
func (s *Service) ConsumeMagicLink(ctx context.Context, rawToken string) (*LoginResult, error) {
	t, err := s.tokens.GetMagicLinkByHash(ctx, s.hashWithPepper(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if t.Expired(time.Now()) {
		return nil, ErrTokenExpired
	}
	if t.Used {
		return nil, ErrTokenUsed
	}

	consumed, err := s.tokens.ConsumeMagicLink(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrTokenUsed
	}

	user, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
			"is_active":      true,
			"email_verified": true,
			"verified_at":    time.Now(),
		}); err != nil {
			return nil, err
		}
		user.IsActive = true
		user.EmailVerified = true
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

// OAuthStart returns the provider consent URL and the state value the
// callback must echo back.
func (s *Service) OAuthStart() (string, string, error) {
	if !s.oauth.Enabled() {
		return "", "", ErrOAuthDisabled
	}
	state := uuid.NewString()
	return s.oauth.AuthCodeURL(state), state, nil
}

// OAuthLogin exchanges the authorization code for a session. A first login
// creates an active, verified CLIENT account; a credential signup that never
// confirmed its code gets activated here, same as a consumed magic link.
func (s *Service) OAuthLogin(ctx context.Context, code string) (*LoginResult, error) {
	if !s.oauth.Enabled() {
		return nil, ErrOAuthDisabled
	}

	identity, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, ErrOAuthEmailMissing
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.IsActive {
			if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
				"is_active":      true,
				"email_verified": true,
				"verified_at":    time.Now(),
			}); err != nil {
				return nil, err
			}
			user.IsActive = true
			user.EmailVerified = true
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		name := strings.TrimSpace(identity.Name)
		if name == "" {
			name = email
		}
		user = &domain.User{
			Email:            email,
			Name:             name,
			AvatarURL:        identity.AvatarURL,
			Role:             domain.RoleClient,
			IsActive:         true,
			EmailVerified:    true,
			VerifiedAt:       sql.NullTime{Time: time.Now(), Valid: true},
			UnsubscribeToken: uuid.NewString(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		// best effort
		if err := s.mailer.SendWelcome(ctx, user); err != nil {
			log.Printf("welcome_email_failed user_id=%d err=%v", user.ID, err)
		}
	default:
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

// RequestPasswordReset emails a reset link; unknown addresses succeed
// silently like RequestMagicLink.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw := uuid.NewString()
	if err := s.tokens.CreateReset(ctx, &domain.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: s.hashWithPepper(raw),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}); err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, user, raw)
}

// ValidateResetToken checks a token without consuming it, for the reset form.
// Expiry is checked before used-state so an expired token always reads
// "expired".
func (s *Service) ValidateResetToken(ctx context.Context, rawToken string) error {
	t, err := s.tokens.GetResetByHash(ctx, s.hashWithPepper(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if t.Expired(time.Now()) {
		return ErrTokenExpired
	}
	if t.Used {
		return ErrTokenUsed
	}
	if t.Attempts >= maxResetAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// ResetPassword consumes the token exactly once and stores the new hash. The
// consume also clears any login lockout.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	t, err := s.tokens.GetResetByHash(ctx, s.hashWithPepper(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if t.Expired(time.Now()) {
		return ErrTokenExpired
	}
	if t.Used {
		return ErrTokenUsed
	}
	if t.Attempts >= maxResetAttempts {
		return ErrTooManyAttempts
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	consumed, err := s.tokens.ConsumeReset(ctx, t.ID)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrTokenUsed
	}

	return s.users.UpdateFields(ctx, t.UserID, map[string]any{
		"password_hash":         string(hash),
		"failed_login_attempts": 0,
		"locked_until":          nil,
	})
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Company != "" {
		user.Company = req.Company
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		// the upload endpoint returns the object URL; the profile update
		// pins it to the account (empty string clears the avatar)
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID int64, req UpdatePreferencesRequest) error {
	fields := map[string]any{}
	if req.EmailNotifications != nil {
		fields["email_notifications"] = *req.EmailNotifications
	}
	if req.ProjectUpdates != nil {
		fields["project_updates"] = *req.ProjectUpdates
	}
	if req.InvoiceReminders != nil {
		fields["invoice_reminders"] = *req.InvoiceReminders
	}
	if req.ChatNotifications != nil {
		fields["chat_notifications"] = *req.ChatNotifications
	}
	if len(fields) == 0 {
		return nil
	}
	return s.users.UpdateFields(ctx, userID, fields)
}

// Unsubscribe turns off email updates for the owner of the token; reached
// from the public link in every marketing-adjacent email.
func (s *Service) Unsubscribe(ctx context.Context, token string) error {
	user, err := s.users.GetByUnsubscribeToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return s.users.UpdateFields(ctx, user.ID, map[string]any{"email_notifications": false})
}

func (s *Service) issueVerificationCode(ctx context.Context, user *domain.User) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.tokens.ReplaceVerification(ctx, &domain.EmailVerification{
		UserID:    user.ID,
		CodeHash:  s.hashWithPepper(code),
		ExpiresAt: time.Now().Add(s.verifyCodeTTL),
	}); err != nil {
		return err
	}

	return s.mailer.SendVerificationCode(ctx, user, code)
}

func (s *Service) getUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) hashWithPepper(raw string) string {
	sum := sha256.Sum256([]byte(raw + s.codePepper))
	return hex.EncodeToString(sum[:])
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
