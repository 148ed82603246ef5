package main

import (
	"log"
	"net/http"

	"wmx/internal/config"
	"wmx/internal/database"
	"wmx/internal/domain"
	"wmx/internal/mail"
	"wmx/internal/middleware"
	"wmx/internal/modules/admin"
	"wmx/internal/modules/auth"
	"wmx/internal/modules/catalog"
	"wmx/internal/modules/chat"
	"wmx/internal/modules/cron"
	"wmx/internal/modules/invoice"
	"wmx/internal/modules/notification"
	"wmx/internal/modules/payment"
	"wmx/internal/modules/portfolio"
	"wmx/internal/modules/project"
	"wmx/internal/modules/upload"
	jwtsvc "wmx/internal/pkg/jwt"
	"wmx/internal/pkg/response"
	"wmx/internal/repository"
	"wmx/internal/security"
	"wmx/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		log.Fatal(err)
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// shared infrastructure
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	store, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		PublicURL: cfg.StoragePublicURL,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatal(err)
	}

	var sender mail.Sender = mail.NoopSender{}
	if cfg.MailConfigured() {
		sender = mail.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	}
	mailer := mail.NewMailer(sender, notifRepo, cfg.AppBaseURL)
	queue := mail.NewQueue(mail.NewMemoryQueue())

	monitor := security.NewMonitor(security.NewMemoryStore(1000))
	csrfTokens := middleware.NewCSRFTokens(cfg.CSRFSecret)
	gateway := payment.NewGateway(cfg.GatewayServerKey, cfg.GatewayClientKey, cfg.GatewayBaseURL)
	hub := chat.NewHub()

	oauthProvider := auth.NewOAuthProvider(auth.OAuthConfig{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		AuthURL:      cfg.OAuthAuthURL,
		TokenURL:     cfg.OAuthTokenURL,
		UserInfoURL:  cfg.OAuthUserInfoURL,
		RedirectURL:  cfg.OAuthRedirectURL,
	})

	// services and handlers
	authService := auth.NewService(userRepo, tokenRepo, j, mailer, oauthProvider, cfg.VerificationCodePepper,
		cfg.VerifyCodeTTL, cfg.ResetTokenTTL, cfg.MagicLinkTTL)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(projectRepo, userRepo, notifRepo, queue)
	projectHandler := project.NewHandler(projectService)

	invoiceService := invoice.NewService(invoiceRepo, projectRepo, notifRepo, queue)
	invoiceHandler := invoice.NewHandler(invoiceService)

	paymentService := payment.NewService(paymentRepo, invoiceRepo, userRepo, notifRepo, queue, gateway, cfg.GatewayServerKey)
	paymentHandler := payment.NewHandler(paymentService, monitor)

	chatService := chat.NewService(messageRepo, projectRepo, userRepo, notifRepo, queue, hub)
	chatHandler := chat.NewHandler(chatService)
	wsHandler := chat.NewWSHandler(hub, j, userRepo, chatService)

	portfolioService := portfolio.NewService(portfolioRepo, store, cfg.MaxGalleryImages)
	portfolioHandler := portfolio.NewHandler(portfolioService)

	catalogService := catalog.NewService(offeringRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	notifService := notification.NewService(notifRepo, userRepo)
	notifHandler := notification.NewHandler(notifService)

	uploadService := upload.NewService(store)
	uploadHandler := upload.NewHandler(uploadService, monitor)

	adminService := admin.NewService(userRepo, projectRepo, invoiceRepo, notifRepo, queue, hub, monitor.BlockedIPs)
	adminHandler := admin.NewHandler(adminService, monitor)

	dispatcher := cron.NewDispatcher(mailer, userRepo)
	cronHandler := cron.NewHandler(queue, dispatcher, invoiceService, tokenRepo)

	// rate limits cover the credential and money endpoints
	authLimiter := middleware.NewRateLimiter(10, 20)
	paymentLimiter := middleware.NewRateLimiter(60, 60)

	r := gin.New()
	r.Use(middleware.ErrorLogger(), middleware.CORS(), security.BlockList(monitor), middleware.CSRF(csrfTokens))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/csrf", func(c *gin.Context) {
			token, err := csrfTokens.Issue()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "CSRF_FAILED", "Could not issue token")
				return
			}
			response.Success(c, http.StatusOK, gin.H{"token": token})
		})

		// public
		authPublic := v1.Group("", middleware.Limit(authLimiter))
		authHandler.RegisterPublicRoutes(authPublic)

		portfolioHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)

		webhook := v1.Group("", middleware.Limit(paymentLimiter))
		paymentHandler.RegisterPublicRoutes(webhook)

		// authenticated
		protected := v1.Group("", middleware.Auth(j, userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			projectHandler.RegisterProtectedRoutes(protected)
			invoiceHandler.RegisterProtectedRoutes(protected)
			chatHandler.RegisterProtectedRoutes(protected)
			portfolioHandler.RegisterProtectedRoutes(protected)
			notifHandler.RegisterProtectedRoutes(protected)
			uploadHandler.RegisterProtectedRoutes(protected)

			paymentProtected := protected.Group("", middleware.Limit(paymentLimiter))
			paymentHandler.RegisterProtectedRoutes(paymentProtected)
		}

		// admin
		adminGroup := v1.Group("/admin", middleware.Auth(j, userRepo), middleware.AdminOnly())
		{
			adminHandler.RegisterAdminRoutes(adminGroup)
			projectHandler.RegisterAdminRoutes(adminGroup)
			invoiceHandler.RegisterAdminRoutes(adminGroup)
			portfolioHandler.RegisterAdminRoutes(adminGroup)
			catalogHandler.RegisterAdminRoutes(adminGroup)
			notifHandler.RegisterAdminRoutes(adminGroup)
		}

		// scheduler
		cronGroup := v1.Group("/cron", middleware.CronAuth(cfg.CronSecret))
		cronHandler.RegisterRoutes(cronGroup)
	}

	r.GET("/ws/chat", wsHandler.HandleWebSocket)

	defer hub.Close()

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
