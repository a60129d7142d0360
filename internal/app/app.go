package app

import (
	"context"
	"fmt"
	"os"

	"workhub_backend/database"
	"workhub_backend/internal/auth"
	"workhub_backend/internal/config"
	"workhub_backend/internal/email"
	"workhub_backend/internal/handlers"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/repositories"
	repochat "workhub_backend/internal/repositories/chat"
	"workhub_backend/internal/routes"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/payment"
	"workhub_backend/internal/storage"
	"workhub_backend/internal/validator"
	"workhub_backend/internal/workers"
	"workhub_backend/pkg/apperrors"
	"workhub_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env)
	apperrors.SetProduction(cfg.Env == "production")
	logger.Info("logger initialized", "env", cfg.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, gormDB)

	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

// SetupRouter собирает зависимости и возвращает готовый *gin.Engine.
// Вынесен отдельно, чтобы интеграционные тесты могли поднять приложение
// поверх httptest.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	logger.Info("storage initialized", "driver", cfg.Storage.Driver)

	tokenManager := auth.NewTokenManager(cfg.JWT)

	wsManager := ws.NewManager()
	go wsManager.Run()

	serviceContainer := initializeServices(cfg, gormDB, storageInstance, tokenManager, wsManager)
	appHandlers := initializeHandlers(serviceContainer)
	wsHandler := ws.NewHandler(wsManager, serviceContainer.ChatService)

	ginRouter := initializeGinRouter(tokenManager)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(
	cfg *config.Config,
	gormDB *gorm.DB,
	storageInstance storage.Storage,
	tokenManager *auth.TokenManager,
	pusher services.MessagePusher,
) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.SMTP.Host != "" {
		provider, err := email.NewSMTPProvider(cfg.SMTP)
		if err != nil {
			logger.Fatal("failed to initialize SMTP provider", "error", err)
		}
		emailService = provider
	} else {
		logger.Warn("SMTP is not configured, outgoing email is disabled")
		emailService = email.NoopProvider{}
	}

	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	chatRepo := repochat.NewChatRepository(gormDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)
	payoutRepo := repositories.NewPayoutRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	uploadRepo := repositories.NewUploadRepository(gormDB)

	checkoutService := payment.NewCheckoutService(payment.CheckoutConfig{
		MerchantLogin: cfg.Checkout.MerchantLogin,
		Password1:     cfg.Checkout.Password1,
		Password2:     cfg.Checkout.Password2,
		BaseURL:       cfg.Checkout.BaseURL,
		Currency:      cfg.Checkout.Currency,
	})

	authService := services.NewAuthService(userRepo, refreshTokenRepo, tokenManager, emailService)
	userService := services.NewUserService(userRepo)
	chatService := services.NewChatService(chatRepo, userRepo, jobRepo, notificationRepo, pusher)
	reviewService := services.NewReviewService(reviewRepo, userRepo, notificationRepo, emailService)
	payoutService := services.NewPayoutService(payoutRepo, userRepo, cfg.Payment)
	notificationService := services.NewNotificationService(notificationRepo)
	uploadService := services.NewUploadService(uploadRepo, storageInstance)
	jobService := services.NewJobService(
		jobRepo,
		applicationRepo,
		userRepo,
		reviewRepo,
		notificationRepo,
		chatService,
		payoutService,
		checkoutService,
		emailService,
		cfg.Payment,
	)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		JobService:          jobService,
		ChatService:         chatService,
		ReviewService:       reviewService,
		PayoutService:       payoutService,
		NotificationService: notificationService,
		UploadService:       uploadService,
		EmailService:        emailService,
		Storage:             storageInstance,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService, container.ReviewService),
		JobHandler:          handlers.NewJobHandler(baseHandler, container.JobService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, container.ChatService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, container.ReviewService),
		PayoutHandler:       handlers.NewPayoutHandler(baseHandler, container.PayoutService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, container.UploadService),
		FileHandler:         handlers.NewFileHandler(baseHandler, container.UploadService),
	}
}

func initializeGinRouter(tokenManager *auth.TokenManager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.IdentityMiddleware(tokenManager))
	return router
}

func startWorkers(ctx context.Context, gormDB *gorm.DB) {
	maintenance := workers.NewMaintenanceWorker(
		repositories.NewRefreshTokenRepository(gormDB),
		repositories.NewNotificationRepository(gormDB),
	)
	maintenance.Start(ctx)
}
