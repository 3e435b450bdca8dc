package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server (wheel api)
	Port string
	Env  string // development, staging, production

	// Snapshot store
	Database DatabaseConfig

	// Report publishing cache
	Redis RedisConfig

	// Position source
	Portfolio PortfolioConfig

	// Output
	Report ReportConfig

	// Engine thresholds (YAML). Empty = built-in defaults
	StrategyPath string

	// Scheduler cron expression (with seconds)
	Schedule string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	Metrics MetricsConfig
}

// DatabaseConfig holds the options-chain snapshot store configuration
type DatabaseConfig struct {
	URL string

	// Schema that owns option_chain_snapshot and daily_iv
	Schema string
	// Prefix the feed puts in front of tickers ("US.PDD")
	SymbolPrefix string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a snapshot store is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	Enabled   bool
	Prefix    string
	ReportTTL time.Duration
}

// PortfolioConfig selects the position source adapter
type PortfolioConfig struct {
	Source       string // file, jsliteral, http
	Location     string // path or URL
	FallbackPath string // explicit fallback dataset, never implicit
	Variable     string // jsliteral: name of the object literal
	HTTPTimeout  time.Duration
	RateLimit    float64 // http: requests per second
}

// ReportConfig holds report output settings
type ReportConfig struct {
	OutputPath string
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled        bool
	PushgatewayURL string
	Job            string
}

// Portfolio source names
const (
	SourceFile      = "file"
	SourceJSLiteral = "jsliteral"
	SourceHTTP      = "http"
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Schema:          getEnv("DB_SCHEMA", "options"),
			SymbolPrefix:    getEnv("DB_SYMBOL_PREFIX", "US."),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			Enabled:   getEnvAsBool("REDIS_ENABLED", false),
			Prefix:    getEnv("REDIS_PREFIX", "wheel"),
			ReportTTL: getEnvAsDuration("REDIS_REPORT_TTL", "168h"),
		},

		Portfolio: PortfolioConfig{
			Source:       getEnv("PORTFOLIO_SOURCE", SourceFile),
			Location:     getEnv("PORTFOLIO_LOCATION", "portfolio_data.json"),
			FallbackPath: getEnv("PORTFOLIO_FALLBACK_PATH", ""),
			Variable:     getEnv("PORTFOLIO_JS_VARIABLE", "DATA"),
			HTTPTimeout:  getEnvAsDuration("PORTFOLIO_HTTP_TIMEOUT", "10s"),
			RateLimit:    getEnvAsFloat("PORTFOLIO_HTTP_RATE_LIMIT", 2),
		},

		Report: ReportConfig{
			OutputPath: getEnv("REPORT_OUTPUT_PATH", "decision_data.json"),
		},

		StrategyPath: getEnv("STRATEGY_PATH", ""),
		Schedule:     getEnv("SCHEDULE", "0 30 16 * * 1-5"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Metrics: MetricsConfig{
			Enabled:        getEnvAsBool("METRICS_ENABLED", false),
			PushgatewayURL: getEnv("METRICS_PUSHGATEWAY_URL", ""),
			Job:            getEnv("METRICS_JOB", "wheel_decision"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Portfolio.Source {
	case SourceFile, SourceJSLiteral, SourceHTTP:
	default:
		return fmt.Errorf("PORTFOLIO_SOURCE must be one of: file, jsliteral, http")
	}

	if c.Report.OutputPath == "" {
		return fmt.Errorf("REPORT_OUTPUT_PATH is required")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
