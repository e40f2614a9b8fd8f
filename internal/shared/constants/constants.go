package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType     = "Content-Type"
	HeaderAuthorization   = "Authorization"
	HeaderXRequestID      = "X-Request-ID"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderUserAgent       = "User-Agent"
	HeaderStripeSignature = "Stripe-Signature"

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// Context keys
	ContextKeyVisitorID    = "visitor_id"
	ContextKeyVisitorEmail = "visitor_email"
	ContextKeyRequestID    = "request_id"

	// Database table names
	TableUsageTracking        = "user_usage_tracking"
	TableSocialMediaCredits   = "social_media_credits"
	TableSubscriptionTiers    = "subscription_tiers"
	TableCheckoutReservations = "checkout_reservations"
	TablePromotionalAccess    = "promotional_access"
	TableUnlimitedUsers       = "unlimited_users"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgRateLimited         = "rate limit exceeded, please try again later"
)
