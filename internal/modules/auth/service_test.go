package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"wmx/internal/database"
	"wmx/internal/domain"
	jwtsvc "wmx/internal/pkg/jwt"
	"wmx/internal/repository"

	"github.com/stretchr/testify/require"
)

// captureMailer records what would have been sent instead of sending it.
type captureMailer struct {
	mu        sync.Mutex
	lastCode  string
	lastToken string
	welcomes  int
}

func (m *captureMailer) SendWelcome(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes++
	return nil
}

func (m *captureMailer) SendVerificationCode(ctx context.Context, user *domain.User, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCode = code
	return nil
}

func (m *captureMailer) SendMagicLink(ctx context.Context, user *domain.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastToken = token
	return nil
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, user *domain.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastToken = token
	return nil
}

// fakeIdentityProvider stands in for the OAuth provider.
type fakeIdentityProvider struct {
	enabled  bool
	identity *OAuthIdentity
	err      error
}

func (p *fakeIdentityProvider) Enabled() bool { return p.enabled }

func (p *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://id.example/authorize?state=" + state
}

func (p *fakeIdentityProvider) Exchange(ctx context.Context, code string) (*OAuthIdentity, error) {
	return p.identity, p.err
}

func setupService(t *testing.T) (*Service, *captureMailer) {
	svc, mailer, _ := setupServiceWithOAuth(t, &fakeIdentityProvider{})
	return svc, mailer
}

func setupServiceWithOAuth(t *testing.T, provider *fakeIdentityProvider) (*Service, *captureMailer, *fakeIdentityProvider) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.AllModels()...))

	mailer := &captureMailer{}
	svc := NewService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		jwtsvc.New("test-secret", time.Hour),
		mailer,
		provider,
		"test-pepper",
		10*time.Minute,
		30*time.Minute,
		15*time.Minute,
	)
	return svc, mailer, provider
}

func register(t *testing.T, svc *Service, email string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	user := register(t, svc, "client@example.com")
	require.False(t, user.IsActive)
	require.NotEmpty(t, mailer.lastCode)

	// cannot log in before verification
	_, err := svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailNotVerified)

	require.NoError(t, svc.VerifyEmail(ctx, "client@example.com", mailer.lastCode))
	require.Equal(t, 1, mailer.welcomes)

	result, err := svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.True(t, result.User.IsActive)
	require.Empty(t, result.User.PasswordHash)
}

func TestVerifyEmailTwiceConflicts(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	register(t, svc, "client@example.com")
	code := mailer.lastCode

	require.NoError(t, svc.VerifyEmail(ctx, "client@example.com", code))
	require.ErrorIs(t, svc.VerifyEmail(ctx, "client@example.com", code), ErrAlreadyVerified)
}

func TestVerifyEmailAttemptCap(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	register(t, svc, "client@example.com")

	for i := 0; i < maxCodeAttempts; i++ {
		require.ErrorIs(t, svc.VerifyEmail(ctx, "client@example.com", "000000"), ErrInvalidCode)
	}

	// even the right code is refused once the attempts are burned
	require.ErrorIs(t, svc.VerifyEmail(ctx, "client@example.com", mailer.lastCode), ErrTooManyAttempts)
}

func TestLoginLockout(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	register(t, svc, "client@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, "client@example.com", mailer.lastCode))

	for i := 1; i < maxFailedLoginAttempts; i++ {
		_, err := svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrAccountLocked)

	// the lock also stops the correct password
	_, err = svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestPasswordResetSingleUse(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	register(t, svc, "client@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, "client@example.com", mailer.lastCode))

	require.NoError(t, svc.RequestPasswordReset(ctx, "client@example.com"))
	token := mailer.lastToken
	require.NotEmpty(t, token)

	require.NoError(t, svc.ValidateResetToken(ctx, token))
	require.NoError(t, svc.ResetPassword(ctx, token, "newpassword456"))

	_, err := svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "newpassword456"})
	require.NoError(t, err)

	// the token is burned
	require.ErrorIs(t, svc.ResetPassword(ctx, token, "thirdpassword"), ErrTokenUsed)
	require.ErrorIs(t, svc.ValidateResetToken(ctx, token), ErrTokenUsed)
}

func TestPasswordResetUnknownEmailSilent(t *testing.T) {
	svc, mailer := setupService(t)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	require.Empty(t, mailer.lastToken)
}

func TestMagicLinkActivatesAndSingleUse(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	user := register(t, svc, "client@example.com")
	require.False(t, user.IsActive)

	require.NoError(t, svc.RequestMagicLink(ctx, "client@example.com"))
	token := mailer.lastToken
	require.NotEmpty(t, token)

	result, err := svc.ConsumeMagicLink(ctx, token)
	require.NoError(t, err)
	require.True(t, result.User.IsActive)
	require.True(t, result.User.EmailVerified)
	require.NotEmpty(t, result.AccessToken)

	_, err = svc.ConsumeMagicLink(ctx, token)
	require.ErrorIs(t, err, ErrTokenUsed)
}

func TestUnsubscribeByToken(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	register(t, svc, "client@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, "client@example.com", mailer.lastCode))

	result, err := svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "password123"})
	require.NoError(t, err)
	require.True(t, result.User.EmailNotifications)

	require.NoError(t, svc.Unsubscribe(ctx, result.User.UnsubscribeToken))

	me, err := svc.GetCurrentUser(ctx, result.User.ID)
	require.NoError(t, err)
	require.False(t, me.EmailNotifications)

	require.ErrorIs(t, svc.Unsubscribe(ctx, "unknown-token"), ErrInvalidToken)
}

func TestOAuthFirstLoginCreatesClient(t *testing.T) {
	svc, mailer, _ := setupServiceWithOAuth(t, &fakeIdentityProvider{
		enabled: true,
		identity: &OAuthIdentity{
			Email:     "New@Example.com",
			Name:      "New User",
			AvatarURL: "https://cdn.id.example/p.png",
		},
	})
	ctx := context.Background()

	result, err := svc.OAuthLogin(ctx, "auth-code")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)

	user := result.User
	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, domain.RoleClient, user.Role)
	require.True(t, user.IsActive)
	require.True(t, user.EmailVerified)
	require.Equal(t, "https://cdn.id.example/p.png", user.AvatarURL)
	require.Equal(t, 1, mailer.welcomes)

	// second login reuses the account
	again, err := svc.OAuthLogin(ctx, "auth-code")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.User.ID)
	require.Equal(t, 1, mailer.welcomes)
}

func TestOAuthActivatesUnverifiedSignup(t *testing.T) {
	svc, _, provider := setupServiceWithOAuth(t, &fakeIdentityProvider{enabled: true})
	ctx := context.Background()

	user := register(t, svc, "client@example.com")
	require.False(t, user.IsActive)

	provider.identity = &OAuthIdentity{Email: "client@example.com", Name: "Client"}
	result, err := svc.OAuthLogin(ctx, "auth-code")
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)
	require.True(t, result.User.IsActive)
	require.True(t, result.User.EmailVerified)

	// password login works afterwards, the account is the same one
	login, err := svc.Login(ctx, LoginRequest{Email: "client@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, user.ID, login.User.ID)
}

func TestOAuthDisabled(t *testing.T) {
	svc, _ := setupService(t)

	_, _, err := svc.OAuthStart()
	require.ErrorIs(t, err, ErrOAuthDisabled)

	_, err = svc.OAuthLogin(context.Background(), "auth-code")
	require.ErrorIs(t, err, ErrOAuthDisabled)
}

func TestOAuthRequiresEmail(t *testing.T) {
	svc, _, _ := setupServiceWithOAuth(t, &fakeIdentityProvider{
		enabled:  true,
		identity: &OAuthIdentity{Name: "No Email"},
	})

	_, err := svc.OAuthLogin(context.Background(), "auth-code")
	require.ErrorIs(t, err, ErrOAuthEmailMissing)
}

func TestOAuthStartStateChanges(t *testing.T) {
	svc, _, _ := setupServiceWithOAuth(t, &fakeIdentityProvider{enabled: true})

	url1, state1, err := svc.OAuthStart()
	require.NoError(t, err)
	require.Contains(t, url1, state1)

	_, state2, err := svc.OAuthStart()
	require.NoError(t, err)
	require.NotEqual(t, state1, state2)
}

func TestUpdateProfileAvatar(t *testing.T) {
	svc, mailer := setupService(t)
	ctx := context.Background()

	user := register(t, svc, "client@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, "client@example.com", mailer.lastCode))

	avatar := "https://cdn.wmx.example/avatar/abc.png"
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{AvatarURL: &avatar})
	require.NoError(t, err)
	require.Equal(t, avatar, updated.AvatarURL)

	// untouched fields survive an avatar-only update
	require.Equal(t, "Test User", updated.Name)

	me, err := svc.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, avatar, me.AvatarURL)

	// nil pointer leaves the avatar alone, empty string clears it
	updated, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Name: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, avatar, updated.AvatarURL)

	empty := ""
	updated, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{AvatarURL: &empty})
	require.NoError(t, err)
	require.Empty(t, updated.AvatarURL)
}
