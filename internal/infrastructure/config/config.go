package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "inboxlift/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	Email       sharedConfig.EmailConfig       `mapstructure:"email"`
	Billing     sharedConfig.BillingConfig     `mapstructure:"billing"`
	Entitlement sharedConfig.EntitlementConfig `mapstructure:"entitlement"`
	RateLimit   sharedConfig.RateLimitConfig   `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("INBOXLIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.timezone", "UTC")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "inboxlift_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Email defaults
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "noreply@inboxlift.local")
	viper.SetDefault("email.from_name", "InboxLift")

	// Billing defaults (credentials must be configured)
	viper.SetDefault("billing.stripe_secret_key", "")
	viper.SetDefault("billing.stripe_webhook_secret", "")
	viper.SetDefault("billing.founders_price_id", "")
	viper.SetDefault("billing.regular_price_id", "")
	viper.SetDefault("billing.success_url", "http://localhost:8080/checkout/success")
	viper.SetDefault("billing.cancel_url", "http://localhost:8080/checkout/cancel")

	// Entitlement defaults: the published product rules
	viper.SetDefault("entitlement.base_free_limit", 5)
	viper.SetDefault("entitlement.one_time_bonus_credits", 10)
	viper.SetDefault("entitlement.monthly_bonus_credits", 30)
	viper.SetDefault("entitlement.oracle_cache_ttl_seconds", 60)
	viper.SetDefault("entitlement.reservation_ttl_minutes", 30)
	viper.SetDefault("entitlement.identity_token_secret", "change-me-in-production")
	viper.SetDefault("entitlement.identity_token_expiry_days", 180)

	// Rate limit defaults
	viper.SetDefault("rate_limit.snapshot_per_minute", 60)
	viper.SetDefault("rate_limit.mutation_per_minute", 10)
	viper.SetDefault("rate_limit.mutation_per_day", 200)
}
