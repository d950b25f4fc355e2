// Package routes defines the API routing configuration. It wires
// repositories into services and handlers, and applies authentication,
// permission and rate-limit middleware per group.
package routes

import (
	"ajopay/internal/config"
	"ajopay/internal/handlers"
	"ajopay/internal/middleware"
	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/services/audit"
	"ajopay/internal/services/auth"
	"ajopay/internal/services/fees"
	"ajopay/internal/services/guard"
	"ajopay/internal/services/kyc"
	"ajopay/internal/services/limits"
	"ajopay/internal/services/payout"
	"ajopay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	historyRepo := repositories.NewTransactionHistoryRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	kycRepo := repositories.NewKYCRepository(db)

	// Policy services
	policy := config.LoadPolicyConfig()
	limitsConfig := limits.Config{
		Daily:   limits.WithdrawalLimit{Period: limits.PeriodDaily, MaxCount: policy.DailyMaxCount, MaxAmount: policy.DailyMaxAmount},
		Weekly:  limits.WithdrawalLimit{Period: limits.PeriodWeekly, MaxCount: policy.WeeklyMaxCount, MaxAmount: policy.WeeklyMaxAmount},
		Monthly: limits.WithdrawalLimit{Period: limits.PeriodMonthly, MaxCount: policy.MonthlyMaxCount, MaxAmount: policy.MonthlyMaxAmount},
	}
	feeSchedule := fees.Schedule{
		BankBaseFee:      policy.BankBaseFee,
		WalletBaseFee:    policy.WalletBaseFee,
		PercentBps:       policy.PercentFeeBps,
		PercentThreshold: policy.PercentThreshold,
		BankFeeCap:       policy.BankFeeCap,
		BasicTierCeiling: policy.BasicTierCeiling,
		FullTierCeiling:  policy.FullTierCeiling,
	}
	tierCeilings := guard.TierCeilings{
		models.TierBasic: policy.BasicTierCeiling,
		models.TierFull:  policy.FullTierCeiling,
	}

	auditService := audit.NewService(auditRepo)
	limitsService := limits.NewService(historyRepo, auditService, limitsConfig)
	feeCalculator := fees.NewCalculator(feeSchedule)
	guardEngine := guard.NewEngine(auditService, tierCeilings)

	var payoutService payout.Service
	if key := config.GetEnv("STRIPE_SECRET_KEY", ""); key != "" {
		payoutService = payout.NewStripeService(key)
	}

	authService := auth.NewService(userRepo, auditService)
	kycService := kyc.NewService(kycRepo, userRepo, auditService)
	walletService := wallet.NewService(
		walletRepo,
		repositories.CacheService,
		limitsService,
		feeCalculator,
		guardEngine,
		auditService,
		payoutService,
		wallet.WalletConfig{Limits: limitsConfig},
		&wallet.NoopMetricsCollector{},
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, walletService)
	walletHandler := handlers.NewWalletHandler(walletService, authService)
	auditHandler := handlers.NewAuditHandler(auditService)
	kycHandler := handlers.NewKYCHandler(kycService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)
	if repositories.CacheService != nil {
		rateLimiter := middleware.NewRateLimiter(repositories.CacheService.Client())
		protected.Use(rateLimiter.Handler)
	}

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)
	walletGroup.Get("/balance", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetBalance)
	walletGroup.Post("/credit", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Credit)
	walletGroup.Post("/withdraw", middleware.HasPermission(models.PermissionWithdraw), walletHandler.Withdraw)

	kycGroup := protected.Group("/kyc")
	kycGroup.Post("/submit", middleware.HasPermission(models.PermissionKYCSubmit), kycHandler.Submit)
	kycGroup.Get("/status", kycHandler.GetStatus)

	// Admin surface: audit trail and KYC review queue
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)
	admin.Get("/audit/events", middleware.HasPermission(models.PermissionReadAdmin), auditHandler.QueryEvents)
	admin.Get("/audit/statistics", middleware.HasPermission(models.PermissionReadAdmin), auditHandler.GetStatistics)
	admin.Get("/kyc/pending", middleware.HasPermission(models.PermissionReadAdmin), kycHandler.ListPending)
	admin.Post("/kyc/:id/approve", middleware.HasPermission(models.PermissionWriteAdmin), kycHandler.Approve)
	admin.Post("/kyc/:id/reject", middleware.HasPermission(models.PermissionWriteAdmin), kycHandler.Reject)
	admin.Post("/wallets/:id/lock", middleware.HasPermission(models.PermissionWriteAdmin), walletHandler.Lock)
	admin.Post("/wallets/:id/unlock", middleware.HasPermission(models.PermissionWriteAdmin), walletHandler.Unlock)
}
