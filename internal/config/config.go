package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/givespark/checkout-api/internal/domain"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Stripe      StripeConfig
	Campaign    CampaignConfig
	Checkout    CheckoutConfig
	RateLimit   RateLimitConfig
	Donor       DonorConfig
	API         APIConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type StripeConfig struct {
	SecretKey  string
	APIBaseURL string
}

type CampaignConfig struct {
	ID       string
	Currency string
}

type CheckoutConfig struct {
	SuccessPath    string
	CancelPath     string
	FallbackOrigin string
}

type RateLimitConfig struct {
	Backend       string // "memory" or "redis"
	Limit         int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
}

type DonorConfig struct {
	TotalsPolicy domain.TotalsPolicy
}

type APIConfig struct {
	AdminKeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	window, err := time.ParseDuration(getEnvOrViper("RATE_LIMIT_WINDOW", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:           getEnvOrViper("DB_HOST", "localhost"),
			Port:           getEnvOrViper("DB_PORT", "5432"),
			User:           getEnvOrViper("DB_USER", "postgres"),
			Password:       getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:         getEnvOrViper("DB_NAME", "checkoutapi"),
			SSLMode:        getEnvOrViper("DB_SSLMODE", "disable"),
			MigrationsPath: getEnvOrViper("DB_MIGRATIONS_PATH", "./migrations"),
		},
		Stripe: StripeConfig{
			SecretKey:  getEnvOrViper("STRIPE_SECRET_KEY", ""),
			APIBaseURL: getEnvOrViper("STRIPE_API_BASE_URL", "https://api.stripe.com"),
		},
		Campaign: CampaignConfig{
			ID:       getEnvOrViper("CAMPAIGN_ID", ""),
			Currency: getEnvOrViper("CAMPAIGN_CURRENCY", "usd"),
		},
		Checkout: CheckoutConfig{
			SuccessPath:    getEnvOrViper("CHECKOUT_SUCCESS_PATH", "/checkout/success"),
			CancelPath:     getEnvOrViper("CHECKOUT_CANCEL_PATH", "/checkout/cancelled"),
			FallbackOrigin: getEnvOrViper("CHECKOUT_FALLBACK_ORIGIN", "http://localhost:3000"),
		},
		RateLimit: RateLimitConfig{
			Backend:       getEnvOrViper("RATE_LIMIT_BACKEND", "memory"),
			Limit:         viper.GetInt("RATE_LIMIT_MAX_REQUESTS"),
			Window:        window,
			RedisAddr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnvOrViper("REDIS_PASSWORD", ""),
		},
		Donor: DonorConfig{
			TotalsPolicy: domain.TotalsPolicy(getEnvOrViper("DONOR_TOTALS_POLICY", string(domain.TotalsPolicyInsertOnly))),
		},
		API: APIConfig{
			AdminKeyHash: getEnvOrViper("ADMIN_API_KEY_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = 10
	}

	// Validate required fields
	if cfg.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.Campaign.ID == "" {
		return nil, fmt.Errorf("CAMPAIGN_ID is required")
	}
	if !cfg.Donor.TotalsPolicy.IsValid() {
		return nil, fmt.Errorf("DONOR_TOTALS_POLICY must be %q or %q",
			domain.TotalsPolicyInsertOnly, domain.TotalsPolicyAlwaysAccumulate)
	}
	if cfg.RateLimit.Backend != "memory" && cfg.RateLimit.Backend != "redis" {
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND must be \"memory\" or \"redis\"")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
