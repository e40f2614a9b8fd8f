package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	billingUC "inboxlift/internal/application/billing/usecases"
	entitlementUC "inboxlift/internal/application/entitlement/usecases"
	identityUC "inboxlift/internal/application/identity/usecases"
	"inboxlift/internal/domain/entitlement"
	infraBilling "inboxlift/internal/infrastructure/billing"
	"inboxlift/internal/infrastructure/cache"
	"inboxlift/internal/infrastructure/config"
	"inboxlift/internal/infrastructure/database"
	"inboxlift/internal/infrastructure/email"
	"inboxlift/internal/infrastructure/migration"
	"inboxlift/internal/infrastructure/ratelimit"
	"inboxlift/internal/infrastructure/repository"
	"inboxlift/internal/infrastructure/scheduler"
	"inboxlift/internal/infrastructure/token"
	httpRouter "inboxlift/internal/interfaces/http"
	"inboxlift/internal/interfaces/http/handlers"
	"inboxlift/internal/shared/biztime"
	"inboxlift/internal/shared/db"
	"inboxlift/internal/shared/logger"
	"inboxlift/internal/shared/services/markdown"
)

var (
	env                string
	autoMigrate        bool
	skipMigrationCheck bool
	tiersFile          string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the InboxLift entitlement server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")
	cmd.Flags().StringVar(&tiersFile, "tiers-file", "configs/tiers.yaml", "Path to the tier seed file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	// Business timezone drives the calendar-month bonus boundaries.
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := handleMigrations(env); err != nil {
		logger.Fatal("migration handling failed", "error", err)
	}

	log := logger.NewLogger()

	// Credit accounting rules: config overrides the stock values.
	rules := entitlement.DefaultRules()
	if cfg.Entitlement.BaseFreeLimit > 0 {
		rules.BaseFreeLimit = cfg.Entitlement.BaseFreeLimit
	}
	if cfg.Entitlement.OneTimeBonusCredits > 0 {
		rules.OneTimeBonusCredits = cfg.Entitlement.OneTimeBonusCredits
	}
	if cfg.Entitlement.MonthlyBonusCredits > 0 {
		rules.MonthlyBonusCredits = cfg.Entitlement.MonthlyBonusCredits
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("invalid entitlement rules: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	infraBilling.Init(cfg.Billing.StripeSecretKey)

	usageRepo := repository.NewUsageTrackingRepository(database.Get(), log)
	evidenceRepo := repository.NewSocialMediaCreditRepository(database.Get(), log)
	promoRepo := repository.NewPromotionalAccessRepository(database.Get(), log)
	unlimitedRepo := repository.NewUnlimitedUserRepository(database.Get(), log)
	tierRepo := repository.NewSubscriptionTierRepository(database.Get(), log)
	reservationRepo := repository.NewCheckoutReservationRepository(database.Get(), log)

	if err := migration.SeedTiersFromFile(cmd.Context(), tiersFile, tierRepo, log); err != nil {
		logger.Fatal("tier seeding failed", "error", err)
	}

	txManager := db.NewTransactionManager(database.Get())

	oracleTTL := time.Duration(cfg.Entitlement.OracleCacheTTLSeconds) * time.Second
	statusCache := cache.NewRedisSubscriptionStatusCache(redisClient, oracleTTL, log)
	oracle := infraBilling.NewStripeSubscriptionOracle(log)
	resolver := entitlementUC.NewStatusResolver(oracle, promoRepo, statusCache, log)

	markdownService := markdown.NewMarkdownService()
	notifier := email.NewBonusNotifier(&cfg.Email, markdownService)

	getSnapshotUC := entitlementUC.NewGetSnapshotUseCase(usageRepo, unlimitedRepo, resolver, rules, log)
	recordUsageUC := entitlementUC.NewRecordUsageUseCase(usageRepo, unlimitedRepo, promoRepo, resolver, rules, log)
	claimSocialBonusUC := entitlementUC.NewClaimSocialBonusUseCase(
		usageRepo, evidenceRepo, resolver, txManager, markdownService, notifier, rules, log)
	getBonusHistoryUC := entitlementUC.NewGetBonusHistoryUseCase(evidenceRepo)

	reservationTTL := time.Duration(cfg.Entitlement.ReservationTTLMinutes) * time.Minute
	checkoutProvider := infraBilling.NewStripeCheckoutProvider(&cfg.Billing, log)
	createCheckoutUC := billingUC.NewCreateCheckoutUseCase(tierRepo, reservationRepo, checkoutProvider, reservationTTL, log)
	processWebhookUC := billingUC.NewProcessWebhookUseCase(reservationRepo, tierRepo, resolver, log)
	expireReservationsUC := billingUC.NewExpireReservationsUseCase(reservationRepo, tierRepo, log)
	getCurrentTierUC := billingUC.NewGetCurrentTierUseCase(tierRepo, log)

	tokenService := token.NewVisitorTokenService(
		cfg.Entitlement.IdentityTokenSecret,
		cfg.Entitlement.IdentityTokenExpiryDays)
	startSessionUC := identityUC.NewStartSessionUseCase(tokenService, log)

	webhookVerifier := infraBilling.NewStripeWebhookVerifier(cfg.Billing.StripeWebhookSecret)
	rateLimiter := ratelimit.NewRedisRateLimiter(redisClient)

	cookieMaxAge := cfg.Entitlement.IdentityTokenExpiryDays * 24 * 3600
	secureCookies := cfg.Server.Mode == gin.ReleaseMode

	router := httpRouter.NewRouter(
		handlers.NewHealthHandler(),
		handlers.NewSessionHandler(startSessionUC, cookieMaxAge, secureCookies),
		handlers.NewEntitlementHandler(getSnapshotUC, recordUsageUC, claimSocialBonusUC, getBonusHistoryUC),
		handlers.NewPricingHandler(getCurrentTierUC),
		handlers.NewCheckoutHandler(createCheckoutUC),
		handlers.NewWebhookHandler(webhookVerifier, processWebhookUC),
		tokenService,
		rateLimiter,
	)
	router.SetupRoutes(cfg)

	schedulerManager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		logger.Fatal("failed to create scheduler", "error", err)
	}
	if err := schedulerManager.RegisterReservationJobs(expireReservationsUC); err != nil {
		logger.Fatal("failed to register reservation sweeper", "error", err)
	}
	schedulerManager.Start()
	defer func() {
		if err := schedulerManager.Stop(); err != nil {
			logger.Error("failed to stop scheduler", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func handleMigrations(environment string) error {
	if skipMigrationCheck {
		logger.Info("skipping migration check")
		return nil
	}

	if autoMigrate {
		if environment == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}

		logger.Info("running auto-migration")
		migrationManager := migration.NewManager(environment)
		if err := migrationManager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		logger.Info("auto-migration completed successfully")
		return nil
	}

	logger.Info("checking migration status")

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		logger.Warn("failed to get migration scripts path", "error", err)
		return nil
	}

	strategy := migration.NewGooseStrategy(scriptsPath)
	if gooseStrategy, ok := strategy.(*migration.GooseStrategy); ok {
		version, err := gooseStrategy.GetVersion(database.Get())
		if err != nil {
			logger.Warn("failed to check migration status", "error", err)
		} else {
			logger.Info("current migration version", "version", version)
		}
	}

	logger.Info("migration check completed")

	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return "release"
	case "development", "dev":
		return "debug"
	case "test", "testing":
		return "test"
	case "debug":
		return "debug"
	case "release":
		return "release"
	default:
		return "debug"
	}
}
