package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
}

// JWTConfig contains bearer-token validation settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// StripeConfig contains payment processor settings
type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	// PlatformFeeBps is the renter surcharge retained by the platform, in
	// basis points (1000 = 10%).
	PlatformFeeBps int64  `yaml:"platform_fee_bps"`
	Currency       string `yaml:"currency"`
	// FrontendBase is where checkout success/cancel and onboarding
	// refresh/return URLs point.
	FrontendBase   string `yaml:"frontend_base"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings for cmd/cronjob
type SchedulerConfig struct {
	ReconcilePayments string `yaml:"reconcile_payments"`
	// StaleAfterMinutes is how long a rental may sit in payment_initiated
	// before the reconciler asks the processor what happened to its session.
	StaleAfterMinutes int `yaml:"stale_after_minutes"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("ALERT_FROM_EMAIL"); val != "" {
		c.Email.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Stripe
	if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" {
		c.Stripe.SecretKey = val
	}
	if val := os.Getenv("STRIPE_WEBHOOK_SECRET"); val != "" {
		c.Stripe.WebhookSecret = val
	}
	if val := os.Getenv("FRONTEND_BASE"); val != "" {
		c.Stripe.FrontendBase = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("stripe secret key is required")
	}
	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("stripe webhook secret is required")
	}

	// Stripe defaults
	if c.Stripe.PlatformFeeBps == 0 {
		c.Stripe.PlatformFeeBps = 1000 // 10%
	}
	if c.Stripe.Currency == "" {
		c.Stripe.Currency = "gbp"
	}
	if c.Stripe.FrontendBase == "" {
		c.Stripe.FrontendBase = "https://rentonomic.com"
	}
	if c.Stripe.TimeoutSeconds == 0 {
		c.Stripe.TimeoutSeconds = 15
	}

	// Scheduler defaults
	if c.Scheduler.ReconcilePayments == "" {
		c.Scheduler.ReconcilePayments = "0 */30 * * * *" // every 30 minutes
	}
	if c.Scheduler.StaleAfterMinutes == 0 {
		c.Scheduler.StaleAfterMinutes = 60
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
