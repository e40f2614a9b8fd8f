package http

import (
	"github.com/gin-gonic/gin"

	"inboxlift/internal/infrastructure/config"
	"inboxlift/internal/infrastructure/ratelimit"
	"inboxlift/internal/infrastructure/token"
	"inboxlift/internal/interfaces/http/handlers"
	"inboxlift/internal/interfaces/http/middleware"
	"inboxlift/internal/shared/logger"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	engine             *gin.Engine
	healthHandler      *handlers.HealthHandler
	sessionHandler     *handlers.SessionHandler
	entitlementHandler *handlers.EntitlementHandler
	pricingHandler     *handlers.PricingHandler
	checkoutHandler    *handlers.CheckoutHandler
	webhookHandler     *handlers.WebhookHandler
	tokenService       *token.VisitorTokenService
	rateLimiter        ratelimit.RateLimiter
}

func NewRouter(
	healthHandler *handlers.HealthHandler,
	sessionHandler *handlers.SessionHandler,
	entitlementHandler *handlers.EntitlementHandler,
	pricingHandler *handlers.PricingHandler,
	checkoutHandler *handlers.CheckoutHandler,
	webhookHandler *handlers.WebhookHandler,
	tokenService *token.VisitorTokenService,
	rateLimiter ratelimit.RateLimiter,
) *Router {
	return &Router{
		engine:             gin.New(),
		healthHandler:      healthHandler,
		sessionHandler:     sessionHandler,
		entitlementHandler: entitlementHandler,
		pricingHandler:     pricingHandler,
		checkoutHandler:    checkoutHandler,
		webhookHandler:     webhookHandler,
		tokenService:       tokenService,
		rateLimiter:        rateLimiter,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes(cfg *config.Config) {
	log := logger.NewLogger()

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", r.healthHandler.Health)

	// Webhooks skip the visitor middleware: the provider authenticates by
	// signature, not session.
	r.engine.POST("/webhooks/stripe", r.webhookHandler.HandleStripeWebhook)

	r.setupSessionRoutes(cfg)
	r.setupEntitlementRoutes(cfg)
	r.setupBillingRoutes(cfg)
}

func (r *Router) setupSessionRoutes(cfg *config.Config) {
	sessions := r.engine.Group("/api/v1/sessions")
	{
		sessions.POST("", middleware.MutationRateLimit(r.rateLimiter, &cfg.RateLimit), r.sessionHandler.StartSession)
		sessions.DELETE("", r.sessionHandler.EndSession)
	}
}

func (r *Router) setupEntitlementRoutes(cfg *config.Config) {
	entitlements := r.engine.Group("/api/v1/entitlements")
	entitlements.Use(middleware.OptionalVisitor(r.tokenService))
	{
		entitlements.GET("/snapshot", middleware.SnapshotRateLimit(r.rateLimiter, &cfg.RateLimit), r.entitlementHandler.GetSnapshot)
		entitlements.POST("/usage", middleware.MutationRateLimit(r.rateLimiter, &cfg.RateLimit), r.entitlementHandler.RecordUsage)
		entitlements.POST("/social-bonus", middleware.MutationRateLimit(r.rateLimiter, &cfg.RateLimit), r.entitlementHandler.ClaimSocialBonus)
		entitlements.GET("/social-bonus", r.entitlementHandler.GetBonusHistory)
	}
}

func (r *Router) setupBillingRoutes(cfg *config.Config) {
	billing := r.engine.Group("/api/v1/billing")
	{
		billing.GET("/current-tier", r.pricingHandler.GetCurrentTier)
		billing.GET("/tiers", r.pricingHandler.ListTiers)
		billing.POST("/checkout",
			middleware.OptionalVisitor(r.tokenService),
			middleware.MutationRateLimit(r.rateLimiter, &cfg.RateLimit),
			r.checkoutHandler.CreateCheckout)
	}
}

// GetEngine returns the underlying Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
