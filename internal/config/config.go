package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Token storage backends.
const (
	TokenStoreMemory = "memory"
	TokenStoreFile   = "file"
	TokenStorePebble = "pebble"
	TokenStoreRedis  = "redis"
)

// Catalogue sources.
const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceFile     = "file"
	CatalogSourceS3       = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	API        APIConfig
	Checkout   CheckoutConfig
	TokenStore TokenStoreConfig
	Catalog    CatalogConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
	S3         S3Config
	Breaker    BreakerConfig
}

// ServerConfig holds configuration of the local session surface.
type ServerConfig struct {
	Host          string
	Port          int
	APIKey        string // optional; empty disables the X-API-Key check
	AllowedOrigin string
}

// APIConfig points at the remote storefront API.
type APIConfig struct {
	BaseURL      string
	OrderTimeout int // seconds, 0 means no timeout
}

// CheckoutConfig holds pricing configuration.
type CheckoutConfig struct {
	DeliveryCharge float64
	Currency       string
}

// TokenStoreConfig selects where the auth token is persisted.
type TokenStoreConfig struct {
	Backend   string
	FilePath  string
	PebbleDir string
	RedisAddr string
	RedisDB   int
	RedisKey  string
}

// CatalogConfig selects where the read-only catalogue is loaded from.
type CatalogConfig struct {
	Source   string
	Location string // file path, or S3 key relative to the S3 prefix
	Category string // optional category filter for the postgres source
	PageSize int
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

// S3Config holds AWS S3 configuration for catalogue snapshots.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // Path prefix within bucket (e.g., "catalog/")
}

// BreakerConfig configures the circuit breaker around remote calls.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      int // seconds
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "127.0.0.1"),
			Port:          getEnvAsInt("SERVER_PORT", 8080),
			APIKey:        getEnv("API_KEY", ""),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		API: APIConfig{
			BaseURL:      getEnv("API_BASE_URL", "http://localhost:4000"),
			OrderTimeout: getEnvAsInt("API_ORDER_TIMEOUT", 0),
		},
		Checkout: CheckoutConfig{
			DeliveryCharge: getEnvAsFloat("DELIVERY_CHARGE", 2),
			Currency:       getEnv("CURRENCY", "$"),
		},
		TokenStore: TokenStoreConfig{
			Backend:   getEnv("TOKEN_STORE", TokenStoreFile),
			FilePath:  getEnv("TOKEN_FILE", "data/session/token"),
			PebbleDir: getEnv("TOKEN_PEBBLE_DIR", "data/session/pebble"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
			RedisDB:   getEnvAsInt("REDIS_DB", 0),
			RedisKey:  getEnv("REDIS_TOKEN_KEY", "storefront:token"),
		},
		Catalog: CatalogConfig{
			Source:   getEnv("CATALOG_SOURCE", CatalogSourceFile),
			Location: getEnv("CATALOG_LOCATION", "data/catalog/catalog.jsonl.gz"),
			Category: getEnv("CATALOG_CATEGORY", ""),
			PageSize: getEnvAsInt("CATALOG_PAGE_SIZE", 100),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 5),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "catalog/"),
		},
		Breaker: BreakerConfig{
			Enabled:          getEnvAsBool("BREAKER_ENABLED", true),
			FailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
			OpenTimeout:      getEnvAsInt("BREAKER_OPEN_TIMEOUT", 30),
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

	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %s", c.API.BaseURL)
	}

	if c.API.OrderTimeout < 0 {
		return fmt.Errorf("API order timeout cannot be negative")
	}

	if c.Checkout.DeliveryCharge < 0 {
		return fmt.Errorf("delivery charge cannot be negative")
	}

	switch c.TokenStore.Backend {
	case TokenStoreMemory:
	case TokenStoreFile:
		if c.TokenStore.FilePath == "" {
			return fmt.Errorf("token file path is required for the file token store")
		}
	case TokenStorePebble:
		if c.TokenStore.PebbleDir == "" {
			return fmt.Errorf("pebble directory is required for the pebble token store")
		}
	case TokenStoreRedis:
		if c.TokenStore.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis token store")
		}
	default:
		return fmt.Errorf("invalid token store: %s (must be memory, file, pebble, or redis)", c.TokenStore.Backend)
	}

	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.Location == "" {
			return fmt.Errorf("catalog location is required for the file catalog source")
		}
	case CatalogSourceS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 catalog source")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required for the s3 catalog source")
		}
	case CatalogSourcePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid catalog source: %s (must be postgres, file, or s3)", c.Catalog.Source)
	}

	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("catalog page size must be at least 1")
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

	if c.Breaker.Enabled {
		if c.Breaker.FailureThreshold < 1 {
			return fmt.Errorf("breaker failure threshold must be at least 1")
		}
		if c.Breaker.OpenTimeout < 1 {
			return fmt.Errorf("breaker open timeout must be at least 1 second")
		}
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
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

// Timeout returns the order request timeout; zero disables it.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.OrderTimeout) * time.Second
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

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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
