package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/invoicely/invoicely-api/internal/application/service"
	"github.com/invoicely/invoicely-api/internal/config"
	"github.com/invoicely/invoicely-api/internal/infrastructure/database"
	"github.com/invoicely/invoicely-api/internal/infrastructure/repository"
	"github.com/invoicely/invoicely-api/internal/presentation/http/handler"
	"github.com/invoicely/invoicely-api/internal/presentation/http/routes"
	"github.com/invoicely/invoicely-api/pkg/cache"
	"github.com/invoicely/invoicely-api/pkg/email"
	"github.com/invoicely/invoicely-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	savedViewRepo := repository.NewSavedViewRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize view invalidation; runs without Redis in development
	var invalidator cache.Invalidator
	if cfg.Redis.Addr != "" {
		redisInvalidator, err := cache.NewRedisInvalidator(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Warning: Redis unavailable, view invalidation disabled: %v", err)
			invalidator = cache.NewNoopInvalidator()
		} else {
			invalidator = redisInvalidator
		}
	} else {
		invalidator = cache.NewNoopInvalidator()
	}
	defer invalidator.Close()

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, orgRepo, jwtManager)
	orgService := service.NewOrganizationService(orgRepo, userRepo)
	usageService := service.NewUsageService(invoiceRepo, orgRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, orgRepo, usageService, invalidator, emailService, cfg.Invoice.NumberPrefix)
	savedViewService := service.NewSavedViewService(savedViewRepo)
	commandService := service.NewCommandService()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Organization: handler.NewOrganizationHandler(orgService),
		Invoice:      handler.NewInvoiceHandler(invoiceService, usageService),
		SavedView:    handler.NewSavedViewHandler(savedViewService),
		Command:      handler.NewCommandHandler(commandService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		OrgRepo:         orgRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
