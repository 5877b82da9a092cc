package configs

import (
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Store backends
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Market   MarketConfig
	Session  SessionConfig
	Accounts AccountsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	OpsPort  string
	Env      string
	LogLevel string
}

// StoreConfig selects and locates the user record store
type StoreConfig struct {
	Backend   string
	UsersFile string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
}

// MarketConfig holds market snapshot configuration
type MarketConfig struct {
	CoinsFile   string
	CoinsURL    string
	RefreshCron string
	CacheTTL    time.Duration
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// AccountsConfig holds account defaults
type AccountsConfig struct {
	StarterBalance decimal.Decimal
}

// DefaultSessionSecret signs sessions when JWT_SECRET is unset
const DefaultSessionSecret = "default-secret-change-in-production"

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "3000"),
			OpsPort:  getEnv("OPS_PORT", "9090"),
			Env:      getEnv("GO_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(getEnv("STORE_BACKEND", StoreFile)),
			UsersFile: getEnv("USERS_FILE", "data/users.json"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Market: MarketConfig{
			CoinsFile:   getEnv("COINS_FILE", "data/coins.json"),
			CoinsURL:    getEnv("COINS_URL", ""),
			RefreshCron: getEnv("MARKET_REFRESH_CRON", "*/1 * * * *"),
			CacheTTL:    getDuration("MARKET_CACHE_TTL", 5*time.Minute),
		},
		Session: SessionConfig{
			Secret: getEnv("JWT_SECRET", DefaultSessionSecret),
			TTL:    getDuration("SESSION_TTL", 24*time.Hour),
		},
		Accounts: AccountsConfig{
			StarterBalance: getDecimal("STARTER_BALANCE", decimal.NewFromInt(1000)),
		},
	}
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if v, err := decimal.NewFromString(os.Getenv(key)); err == nil && !v.IsNegative() {
		return v
	}
	return defaultValue
}
