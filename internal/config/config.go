package config

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Ledger      LedgerConfig
	Storage     StorageConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Path     string
}

// LedgerConfig holds the business rules that vary per deployment
type LedgerConfig struct {
	TaxRate           decimal.Decimal
	DefaultClient     string
	DefaultSupplier   string
	LowStockThreshold int
	MaxItemsPerRecord int
}

type StorageConfig struct {
	Provider           string
	Path               string
	PublicURL          string
	GCSBucket          string
	GCSCredentialsJSON string
	UploadMaxSize      int64
	MaxImageDimension  int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type IdempotencyConfig struct {
	TTL       time.Duration
	PurgeSpec string
}

// DefaultTaxRate is applied when TAX_RATE is missing or malformed
var DefaultTaxRate = decimal.RequireFromString("0.21")

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Path:     viper.GetString("DB_PATH"),
		},
		Ledger: LedgerConfig{
			TaxRate:           ParseTaxRate(viper.GetString("TAX_RATE")),
			DefaultClient:     viper.GetString("LEDGER_DEFAULT_CLIENT"),
			DefaultSupplier:   viper.GetString("LEDGER_DEFAULT_SUPPLIER"),
			LowStockThreshold: viper.GetInt("LOW_STOCK_THRESHOLD"),
			MaxItemsPerRecord: viper.GetInt("LEDGER_MAX_ITEMS"),
		},
		Storage: StorageConfig{
			Provider:           strings.ToLower(viper.GetString("STORAGE_PROVIDER")),
			Path:               viper.GetString("STORAGE_PATH"),
			PublicURL:          viper.GetString("STORAGE_PUBLIC_URL"),
			GCSBucket:          viper.GetString("GCS_BUCKET"),
			GCSCredentialsJSON: viper.GetString("GCS_CREDENTIALS_JSON"),
			UploadMaxSize:      viper.GetInt64("UPLOAD_MAX_SIZE"),
			MaxImageDimension:  viper.GetInt("UPLOAD_MAX_DIMENSION"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			File:       viper.GetString("LOG_FILE"),
			MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Idempotency: IdempotencyConfig{
			TTL:       time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
			PurgeSpec: viper.GetString("IDEMPOTENCY_PURGE_CRON"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "stockledger-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "stockledger")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_PATH", "./data/stockledger.db")
	viper.SetDefault("TAX_RATE", "0.21")
	viper.SetDefault("LEDGER_DEFAULT_CLIENT", "Walk-in")
	viper.SetDefault("LEDGER_DEFAULT_SUPPLIER", "Unknown")
	viper.SetDefault("LOW_STOCK_THRESHOLD", 5)
	viper.SetDefault("LEDGER_MAX_ITEMS", 200)
	viper.SetDefault("STORAGE_PROVIDER", "local")
	viper.SetDefault("STORAGE_PATH", "./storage")
	viper.SetDefault("STORAGE_PUBLIC_URL", "/uploads")
	viper.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	viper.SetDefault("UPLOAD_MAX_DIMENSION", 1024)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_TOPIC", "stockledger.events")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_MAX_SIZE_MB", 50)
	viper.SetDefault("LOG_MAX_BACKUPS", 5)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 30)
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("IDEMPOTENCY_PURGE_CRON", "@hourly")
}

// ParseTaxRate parses a decimal fraction such as "0.21".
// Malformed or negative input falls back to DefaultTaxRate.
func ParseTaxRate(raw string) decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || rate.IsNegative() {
		log.Printf("Warning: invalid TAX_RATE %q, using %s", raw, DefaultTaxRate)
		return DefaultTaxRate
	}
	return rate
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// IsProduction reports whether the app runs in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
