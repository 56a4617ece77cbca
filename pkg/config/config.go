package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	SMS           SMSConfig
	Cache         CacheConfig
	Export        ExportConfig
	Digest        DigestConfig
	Observability ObservabilityConfig
	LogLevel      string
}

type ServerConfig struct {
	Host               string
	Port               int
	APIVersion         string
	APIKey             string
	CORSOrigins        []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

// APIPrefix is the path prefix of authenticated routes, e.g. "/api/v1".
func (s ServerConfig) APIPrefix() string {
	return "/api/" + s.APIVersion
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type SMSConfig struct {
	MinLength  int
	MaxLength  int
	RulesFile  string // Optional YAML catalog merged after the built-in groups
	LogCredits bool
}

type CacheConfig struct {
	StatsTTL time.Duration
}

type ExportConfig struct {
	Dir        string // Root of the archived monthly workbooks
	SearchPath string // Merchant index location, empty for in-memory
}

type DigestConfig struct {
	ResendAPIKey string
	From         string
	To           []string
	Schedule     string
}

// Enabled reports whether the monthly digest email can be sent.
func (d DigestConfig) Enabled() bool {
	return d.ResendAPIKey != "" && len(d.To) > 0
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPath    string
	ServiceName    string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnvAsInt("PORT", 5000),
			APIVersion:         getEnv("API_VERSION", "v1"),
			APIKey:             getEnv("API_KEY", ""),
			CORSOrigins:        getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 40),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "sms-ledger"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		SMS: SMSConfig{
			MinLength:  getEnvAsInt("MIN_SMS_LENGTH", 10),
			MaxLength:  getEnvAsInt("MAX_SMS_LENGTH", 1000),
			RulesFile:  getEnv("SMS_RULES_FILE", ""),
			LogCredits: getEnvAsBool("LOG_CREDITS", false),
		},
		Cache: CacheConfig{
			StatsTTL: getEnvAsDuration("STATS_CACHE_TTL", 50*time.Minute),
		},
		Export: ExportConfig{
			Dir:        getEnv("EXPORT_DIR", "./exports"),
			SearchPath: getEnv("MERCHANT_INDEX_PATH", ""),
		},
		Digest: DigestConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("DIGEST_FROM", "SMS Ledger <ledger@example.com>"),
			To:           getEnvAsList("DIGEST_TO", nil),
			Schedule:     getEnv("DIGEST_CRON", "0 2 1 * *"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPath:    getEnv("METRICS_PATH", "/metrics"),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "sms-finance-logger"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Server.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required"))
	}
	if c.SMS.MinLength < 0 || c.SMS.MaxLength < c.SMS.MinLength {
		errs = append(errs, fmt.Errorf("invalid SMS length bounds %d..%d", c.SMS.MinLength, c.SMS.MaxLength))
	}
	if c.Server.RateLimitPerSecond <= 0 {
		errs = append(errs, errors.New("SERVER_RATE_LIMIT_PER_SECOND must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("50m") or plain seconds ("3000").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
