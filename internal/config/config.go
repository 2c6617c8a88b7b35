package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	CORS   CORSConfig
	Cache  CacheConfig
	Audit  AuditConfig
	Tax    TaxConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds the Redis resolution cache settings.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AuditConfig selects where rule change events are written.
type AuditConfig struct {
	// Sink is one of postgres, s3 or noop.
	Sink string   `mapstructure:"sink"`
	S3   S3Config `mapstructure:"s3"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// TaxConfig holds engine settings.
type TaxConfig struct {
	// BusinessTypes are the business types every code is expected to be
	// configured for; the validation report lists the missing ones.
	BusinessTypes   []string `mapstructure:"business_types"`
	BulkConcurrency int      `mapstructure:"bulk_concurrency"`
}

// Load reads configuration from environment variables with the GSTENGINE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GSTENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstengine")
	v.SetDefault("db.password", "gstengine_secret")
	v.SetDefault("db.name", "gstengine_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "10m")

	// Audit defaults
	v.SetDefault("audit.sink", "postgres")
	v.SetDefault("audit.s3.region", "ap-south-1")
	v.SetDefault("audit.s3.bucket", "gstengine-audit")
	v.SetDefault("audit.s3.endpoint", "")
	v.SetDefault("audit.s3.prefix", "tax-audit")

	// Tax defaults
	v.SetDefault("tax.business_types", "RETAIL,WHOLESALE,MANUFACTURING,SERVICES")
	v.SetDefault("tax.bulk_concurrency", 8)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "GSTENGINE_SERVER_PORT",
		"server.read_timeout":  "GSTENGINE_SERVER_READ_TIMEOUT",
		"server.write_timeout": "GSTENGINE_SERVER_WRITE_TIMEOUT",
		"server.environment":   "GSTENGINE_SERVER_ENVIRONMENT",
		"db.host":              "GSTENGINE_DB_HOST",
		"db.port":              "GSTENGINE_DB_PORT",
		"db.user":              "GSTENGINE_DB_USER",
		"db.password":          "GSTENGINE_DB_PASSWORD",
		"db.name":              "GSTENGINE_DB_NAME",
		"db.sslmode":           "GSTENGINE_DB_SSLMODE",
		"db.max_open":          "GSTENGINE_DB_MAX_OPEN",
		"db.max_idle":          "GSTENGINE_DB_MAX_IDLE",
		"log.level":            "GSTENGINE_LOG_LEVEL",
		"log.format":           "GSTENGINE_LOG_FORMAT",
		"cors.allowed_origins": "GSTENGINE_CORS_ALLOWED_ORIGINS",
		"cache.enabled":        "GSTENGINE_CACHE_ENABLED",
		"cache.addr":           "GSTENGINE_CACHE_ADDR",
		"cache.password":       "GSTENGINE_CACHE_PASSWORD",
		"cache.db":             "GSTENGINE_CACHE_DB",
		"cache.ttl":            "GSTENGINE_CACHE_TTL",
		"audit.sink":           "GSTENGINE_AUDIT_SINK",
		"audit.s3.region":      "GSTENGINE_AUDIT_S3_REGION",
		"audit.s3.bucket":      "GSTENGINE_AUDIT_S3_BUCKET",
		"audit.s3.endpoint":    "GSTENGINE_AUDIT_S3_ENDPOINT",
		"audit.s3.access_key":  "GSTENGINE_AUDIT_S3_ACCESS_KEY",
		"audit.s3.secret_key":  "GSTENGINE_AUDIT_S3_SECRET_KEY",
		"audit.s3.prefix":      "GSTENGINE_AUDIT_S3_PREFIX",
		"tax.business_types":   "GSTENGINE_TAX_BUSINESS_TYPES",
		"tax.bulk_concurrency": "GSTENGINE_TAX_BULK_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GSTENGINE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTENGINE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("cache.enabled"),
		Addr:     v.GetString("cache.addr"),
		Password: v.GetString("cache.password"),
		DB:       v.GetInt("cache.db"),
		TTL:      v.GetDuration("cache.ttl"),
	}
	cfg.Audit = AuditConfig{
		Sink: strings.ToLower(v.GetString("audit.sink")),
		S3: S3Config{
			Region:    v.GetString("audit.s3.region"),
			Bucket:    v.GetString("audit.s3.bucket"),
			Endpoint:  v.GetString("audit.s3.endpoint"),
			AccessKey: v.GetString("audit.s3.access_key"),
			SecretKey: v.GetString("audit.s3.secret_key"),
			Prefix:    v.GetString("audit.s3.prefix"),
		},
	}
	cfg.Tax = TaxConfig{
		BusinessTypes:   splitList(v.GetString("tax.business_types")),
		BulkConcurrency: v.GetInt("tax.bulk_concurrency"),
	}

	switch cfg.Audit.Sink {
	case "postgres", "s3", "noop":
	default:
		return nil, fmt.Errorf("unknown audit sink %q (want postgres, s3 or noop)", cfg.Audit.Sink)
	}
	if cfg.Tax.BulkConcurrency < 1 {
		return nil, fmt.Errorf("tax.bulk_concurrency must be at least 1, got %d", cfg.Tax.BulkConcurrency)
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
