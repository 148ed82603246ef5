package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL     = "24h"
	defaultVerifyCodeTTL    = "10m"
	defaultResetTokenTTL    = "30m"
	defaultMagicLinkTTL     = "15m"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultCodePepper       = "change-me-verification-pepper"
	defaultCSRFSecret       = "change-me-csrf-secret"
	defaultAppBaseURL       = "http://localhost:3000"
	defaultMaxGalleryImages = "12"
)

// Config holds all runtime settings read once at process start.
// Missing integration keys disable the integration outside prod instead of
// failing startup (the mailer, storage client and gateway each no-op when
// unconfigured).
type Config struct {
	AppEnv     string
	AppBaseURL string

	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	VerificationCodePepper string
	VerifyCodeTTL          time.Duration
	ResetTokenTTL          time.Duration
	MagicLinkTTL           time.Duration

	CSRFSecret string
	CronSecret string

	// OAuth sign-in (any authorization-code provider with a userinfo endpoint).
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthUserInfoURL  string
	OAuthRedirectURL  string

	// Midtrans-style gateway credentials.
	GatewayServerKey    string
	GatewayClientKey    string
	GatewayBaseURL      string
	GatewayIsProduction bool

	// S3-compatible object storage.
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StoragePublicURL string
	StorageUseSSL    bool

	// Resend transactional email.
	ResendAPIKey string
	MailFrom     string

	MaxGalleryImages int
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.AppBaseURL = strings.TrimRight(getEnv("APP_BASE_URL", defaultAppBaseURL), "/")

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.VerificationCodePepper = strings.TrimSpace(getEnv("VERIFICATION_CODE_PEPPER", defaultCodePepper))
	cfg.CSRFSecret = strings.TrimSpace(getEnv("CSRF_SECRET", defaultCSRFSecret))
	cfg.CronSecret = strings.TrimSpace(os.Getenv("CRON_SECRET"))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.VerifyCodeTTL, err = parseDurationEnv("VERIFY_CODE_TTL", defaultVerifyCodeTTL)
	if err != nil {
		return nil, err
	}
	cfg.ResetTokenTTL, err = parseDurationEnv("RESET_TOKEN_TTL", defaultResetTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.MagicLinkTTL, err = parseDurationEnv("MAGIC_LINK_TTL", defaultMagicLinkTTL)
	if err != nil {
		return nil, err
	}

	cfg.OAuthClientID = strings.TrimSpace(os.Getenv("OAUTH_CLIENT_ID"))
	cfg.OAuthClientSecret = strings.TrimSpace(os.Getenv("OAUTH_CLIENT_SECRET"))
	cfg.OAuthAuthURL = strings.TrimSpace(os.Getenv("OAUTH_AUTH_URL"))
	cfg.OAuthTokenURL = strings.TrimSpace(os.Getenv("OAUTH_TOKEN_URL"))
	cfg.OAuthUserInfoURL = strings.TrimSpace(os.Getenv("OAUTH_USERINFO_URL"))
	cfg.OAuthRedirectURL = strings.TrimSpace(getEnv("OAUTH_REDIRECT_URL", cfg.AppBaseURL+"/auth/callback"))

	cfg.GatewayServerKey = strings.TrimSpace(os.Getenv("GATEWAY_SERVER_KEY"))
	cfg.GatewayClientKey = strings.TrimSpace(os.Getenv("GATEWAY_CLIENT_KEY"))
	cfg.GatewayIsProduction = parseBoolEnv("GATEWAY_PRODUCTION", "false")
	defaultGatewayURL := "https://app.sandbox.midtrans.com/snap/v1"
	if cfg.GatewayIsProduction {
		defaultGatewayURL = "https://app.midtrans.com/snap/v1"
	}
	cfg.GatewayBaseURL = strings.TrimRight(getEnv("GATEWAY_BASE_URL", defaultGatewayURL), "/")

	cfg.StorageEndpoint = strings.TrimSpace(os.Getenv("STORAGE_ENDPOINT"))
	cfg.StorageAccessKey = strings.TrimSpace(os.Getenv("STORAGE_ACCESS_KEY"))
	cfg.StorageSecretKey = strings.TrimSpace(os.Getenv("STORAGE_SECRET_KEY"))
	cfg.StorageBucket = strings.TrimSpace(getEnv("STORAGE_BUCKET", "wmx-uploads"))
	cfg.StoragePublicURL = strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_PUBLIC_URL")), "/")
	cfg.StorageUseSSL = parseBoolEnv("STORAGE_USE_SSL", "true")

	cfg.ResendAPIKey = strings.TrimSpace(os.Getenv("RESEND_API_KEY"))
	cfg.MailFrom = strings.TrimSpace(getEnv("MAIL_FROM", "WMX Services <no-reply@wmx.services>"))

	cfg.MaxGalleryImages, err = parseIntEnv("MAX_GALLERY_IMAGES", defaultMaxGalleryImages)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded env=%s gateway_configured=%t storage_configured=%t mail_configured=%t oauth_configured=%t",
		cfg.AppEnv, cfg.GatewayConfigured(), cfg.StorageConfigured(), cfg.MailConfigured(), cfg.OAuthConfigured())

	return cfg, nil
}

func (c *Config) GatewayConfigured() bool { return c.GatewayServerKey != "" }
func (c *Config) OAuthConfigured() bool   { return c.OAuthClientID != "" && c.OAuthClientSecret != "" }
func (c *Config) StorageConfigured() bool { return c.StorageEndpoint != "" }
func (c *Config) MailConfigured() bool    { return c.ResendAPIKey != "" }

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func validate(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.VerifyCodeTTL <= 0 {
		return fmt.Errorf("VERIFY_CODE_TTL must be > 0")
	}
	if cfg.MaxGalleryImages <= 0 {
		return fmt.Errorf("MAX_GALLERY_IMAGES must be > 0")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.VerificationCodePepper, defaultCodePepper) {
			return fmt.Errorf("in prod/release VERIFICATION_CODE_PEPPER must be set and not default")
		}
		if isEmptyOrDefault(cfg.CSRFSecret, defaultCSRFSecret) {
			return fmt.Errorf("in prod/release CSRF_SECRET must be set and not default")
		}
		if cfg.CronSecret == "" {
			return fmt.Errorf("in prod/release CRON_SECRET must be set")
		}
		if !cfg.GatewayConfigured() {
			return fmt.Errorf("in prod/release GATEWAY_SERVER_KEY must be set")
		}
	}

	return nil
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
