package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Catalog  CatalogConfig
	Store    StoreConfig
	OTP      OTPConfig
	Cart     CartConfig
	Checkout CheckoutConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey        string
	SessionSecret string
	SessionTTL    time.Duration
}

// S3Config holds AWS S3 configuration for the catalogue snapshot.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "catalog/")
}

// CatalogConfig locates the product catalogue snapshot.
type CatalogConfig struct {
	FilePath string
}

// StoreConfig holds the pricing and loyalty rules, in whole rupees.
type StoreConfig struct {
	FreeDeliveryThreshold int64
	DeliveryFee           int64
	WelcomeBonus          int64
	RupeesPerPoint        int64
	TaxRatePercent        int64
	ShopWhatsApp          string
}

// OTPConfig holds one-time-code settings.
type OTPConfig struct {
	TTL time.Duration
}

// CartConfig holds abandoned-cart detection settings.
type CartConfig struct {
	AbandonedAfter time.Duration
	CheckInterval  time.Duration
}

// CheckoutConfig holds checkout settings.
type CheckoutConfig struct {
	OnlinePaymentDelay time.Duration
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "veggiekart"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey:        getEnv("API_KEY", ""),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "ap-south-1"),
			Prefix:  getEnv("S3_PREFIX", "catalog/"),
		},
		Catalog: CatalogConfig{
			FilePath: getEnv("CATALOG_FILE", "data/catalog/products.json.gz"),
		},
		Store: StoreConfig{
			FreeDeliveryThreshold: int64(getEnvAsInt("FREE_DELIVERY_THRESHOLD", 300)),
			DeliveryFee:           int64(getEnvAsInt("DELIVERY_FEE", 40)),
			WelcomeBonus:          int64(getEnvAsInt("WELCOME_BONUS_POINTS", 100)),
			RupeesPerPoint:        int64(getEnvAsInt("RUPEES_PER_POINT", 10)),
			TaxRatePercent:        int64(getEnvAsInt("TAX_RATE_PERCENT", 18)),
			ShopWhatsApp:          getEnv("SHOP_WHATSAPP", "919876543210"),
		},
		OTP: OTPConfig{
			TTL: getEnvAsDuration("OTP_TTL", 120*time.Second),
		},
		Cart: CartConfig{
			AbandonedAfter: getEnvAsDuration("CART_ABANDONED_AFTER", time.Hour),
			CheckInterval:  getEnvAsDuration("CART_CHECK_INTERVAL", 30*time.Minute),
		},
		Checkout: CheckoutConfig{
			OnlinePaymentDelay: getEnvAsDuration("ONLINE_PAYMENT_DELAY", 2*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Catalog.FilePath == "" {
		return fmt.Errorf("catalog file path is required")
	}

	if c.Store.DeliveryFee < 0 || c.Store.FreeDeliveryThreshold < 0 {
		return fmt.Errorf("delivery fee and free delivery threshold cannot be negative")
	}

	if c.Store.RupeesPerPoint < 1 {
		return fmt.Errorf("rupees per loyalty point must be at least 1")
	}

	if c.Store.TaxRatePercent < 0 || c.Store.TaxRatePercent > 100 {
		return fmt.Errorf("invalid tax rate: %d%%", c.Store.TaxRatePercent)
	}

	if c.OTP.TTL <= 0 {
		return fmt.Errorf("OTP TTL must be positive")
	}

	if c.Cart.AbandonedAfter <= 0 || c.Cart.CheckInterval <= 0 {
		return fmt.Errorf("abandoned cart threshold and check interval must be positive")
	}

	if c.Checkout.OnlinePaymentDelay < 0 {
		return fmt.Errorf("online payment delay cannot be negative")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a time.Duration (e.g. "90s")
// or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
