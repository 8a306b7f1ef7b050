package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Runtime
	Env      string
	LogLevel string

	// Server
	Port        string
	AdminAPIKey string

	// Database
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	MigrationsPath string

	// Import
	DefaultCurrency string
	MappingCacheTTL time.Duration

	// Market data
	TwelveDataAPIKey   string
	TwelveDataBaseURL  string
	FrankfurterBaseURL string
	YahooBaseURL       string
	QuoteRatePerMinute int
	HTTPTimeout        time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Port:        getEnv("PORT", "8080"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "folio"),
		DBPassword:     getEnv("DB_PASSWORD", "folio"),
		DBName:         getEnv("DB_NAME", "folio"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "folio.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "EUR")),
		MappingCacheTTL: getDuration("MAPPING_CACHE_TTL", 15*time.Minute),

		TwelveDataAPIKey:   getEnv("TWELVE_DATA_API_KEY", "demo"),
		TwelveDataBaseURL:  getEnv("TWELVE_DATA_BASE_URL", "https://api.twelvedata.com"),
		FrankfurterBaseURL: getEnv("FRANKFURTER_BASE_URL", "https://api.frankfurter.app"),
		YahooBaseURL:       getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
		QuoteRatePerMinute: getInt("QUOTE_RATE_PER_MINUTE", 8),
		HTTPTimeout:        getDuration("HTTP_TIMEOUT", 15*time.Second),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// UsesSQLite reports whether the configured driver is the embedded SQLite one.
func (c *Config) UsesSQLite() bool {
	return c.DBDriver == "sqlite"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
