package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// BillingConfig holds the Stripe credentials and the redirect URLs used by
// checkout session creation.
type BillingConfig struct {
	StripeSecretKey     string `mapstructure:"stripe_secret_key"`
	StripeWebhookSecret string `mapstructure:"stripe_webhook_secret"`
	FoundersPriceID     string `mapstructure:"founders_price_id"`
	RegularPriceID      string `mapstructure:"regular_price_id"`
	SuccessURL          string `mapstructure:"success_url"`
	CancelURL           string `mapstructure:"cancel_url"`
}

// EntitlementConfig tunes the credit accounting rules. Defaults match the
// product rules: 5 free rewrites, 10 one-time bonus credits, 30 monthly
// bonus credits for subscribers.
type EntitlementConfig struct {
	BaseFreeLimit           int    `mapstructure:"base_free_limit"`
	OneTimeBonusCredits     int    `mapstructure:"one_time_bonus_credits"`
	MonthlyBonusCredits     int    `mapstructure:"monthly_bonus_credits"`
	OracleCacheTTLSeconds   int    `mapstructure:"oracle_cache_ttl_seconds"`
	ReservationTTLMinutes   int    `mapstructure:"reservation_ttl_minutes"`
	IdentityTokenSecret     string `mapstructure:"identity_token_secret"`
	IdentityTokenExpiryDays int    `mapstructure:"identity_token_expiry_days"`
}

type RateLimitConfig struct {
	SnapshotPerMinute int `mapstructure:"snapshot_per_minute"`
	MutationPerMinute int `mapstructure:"mutation_per_minute"`
	MutationPerDay    int `mapstructure:"mutation_per_day"`
}
