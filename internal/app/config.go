package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/db"
	"github.com/AlcMaple/bridge-inspection-backend/internal/observability"
)

const envPrefix = "BRIDGE"

type Config struct {
	LogMode  string `mapstructure:"log_mode"`
	HTTPAddr string `mapstructure:"http_addr"`

	DBDriver         string `mapstructure:"db_driver"`
	PostgresDSN      string `mapstructure:"postgres_dsn"`
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     string `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresName     string `mapstructure:"postgres_name"`
	SQLitePath       string `mapstructure:"sqlite_path"`
	AutoMigrate      bool   `mapstructure:"auto_migrate"`

	RedisAddr       string `mapstructure:"redis_addr"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`

	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `mapstructure:"cors_origins"`

	MetricsEnabled       bool    `mapstructure:"metrics_enabled"`
	MetricsAddr          string  `mapstructure:"metrics_addr"`
	MetricsScrapeSeconds int     `mapstructure:"metrics_scrape_seconds"`
	OtelEnabled          bool    `mapstructure:"otel_enabled"`
	OtelEndpoint         string  `mapstructure:"otel_endpoint"`
	OtelInsecure         bool    `mapstructure:"otel_insecure"`
	OtelSampleRatio      float64 `mapstructure:"otel_sample_ratio"`
	OtelHeaders          string  `mapstructure:"otel_headers"`
	ServiceName          string  `mapstructure:"service_name"`
	ServiceVersion       string  `mapstructure:"service_version"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("log_mode", "development")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_driver", db.DriverPostgres)
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "postgres")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_name", "bridge_inspection")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("auto_migrate", true)
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl_seconds", 300)
	v.SetDefault("rate_limit_rps", 20.0)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("metrics_scrape_seconds", 10)
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_endpoint", "")
	v.SetDefault("otel_insecure", false)
	v.SetDefault("otel_sample_ratio", 0.1)
	v.SetDefault("otel_headers", "")
	v.SetDefault("service_name", "bridge-inspection")
	v.SetDefault("service_version", "dev")
}

// LoadConfig reads defaults, then the optional config file, then BRIDGE_* env vars.
// An empty path falls back to BRIDGE_CONFIG.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG"))
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.applyOtelEnvFallbacks()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyOtelEnvFallbacks() {
	if c.OtelEndpoint == "" {
		c.OtelEndpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	}
	if c.OtelHeaders == "" {
		c.OtelHeaders = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	}
}

func (c Config) validate() error {
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("config: db_driver must be one of [%s,%s]", db.DriverPostgres, db.DriverSQLite)
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: http_addr is required")
	}
	if c.CacheTTLSeconds < 0 {
		return errors.New("config: cache_ttl_seconds must be >= 0")
	}
	if c.RateLimitRPS < 0 {
		return errors.New("config: rate_limit_rps must be >= 0")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return errors.New("config: rate_limit_burst must be > 0 when rate limiting is enabled")
	}
	if c.OtelSampleRatio < 0 || c.OtelSampleRatio > 1 {
		return errors.New("config: otel_sample_ratio must be within [0,1]")
	}
	return nil
}

// DBOptions resolves the database connection settings. A discrete Postgres host
// configuration is used when no DSN is given.
func (c Config) DBOptions() db.Options {
	dsn := strings.TrimSpace(c.PostgresDSN)
	if dsn == "" && c.DBDriver == db.DriverPostgres {
		dsn = db.PostgresDSN(c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresName)
	}
	return db.Options{
		Driver:      c.DBDriver,
		PostgresDSN: dsn,
		SQLitePath:  c.SQLitePath,
	}
}

func (c Config) OtelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.ServiceName,
		Environment: c.LogMode,
		Version:     c.ServiceVersion,
		Endpoint:    c.OtelEndpoint,
		Insecure:    c.OtelInsecure,
		Headers:     observability.ParseOtelHeaders(c.OtelHeaders),
		SampleRatio: c.OtelSampleRatio,
	}
}
