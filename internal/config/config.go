package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"DATABASE_DRIVER"`
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL"`
}

type SchedulerConfig struct {
	Cron     string `mapstructure:"SCHEDULER_CRON"`
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	UpcomingDaysAhead   int    `mapstructure:"UPCOMING_DAYS_AHEAD"`
	DefaultScheduleType string `mapstructure:"DEFAULT_SCHEDULE_TYPE"`
	LockTTL             string `mapstructure:"LOCK_TTL"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var defaults = map[string]interface{}{
	"SERVER_PORT":             "8080",
	"SERVER_HOST":             "127.0.0.1",
	"ENV":                     "development",
	"SERVER_READ_TIMEOUT":     "15s",
	"SERVER_WRITE_TIMEOUT":    "15s",
	"DATABASE_DRIVER":         DriverSQLite,
	"DATABASE_URL":            "file:credits.db?_foreign_keys=on",
	"DATABASE_MAX_OPEN_CONNS": 10,
	"DATABASE_MAX_IDLE_CONNS": 5,
	"REDIS_URL":               "",
	"SCHEDULER_CRON":          "0 9 * * *",
	"SCHEDULER_TIMEZONE":      "Local",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "json",
	"UPCOMING_DAYS_AHEAD":     7,
	"DEFAULT_SCHEDULE_TYPE":   string(domain.ScheduleTypeAnnuity),
	"LOCK_TTL":                "10s",
	"HEALTH_CHECK_TIMEOUT":    "5s",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Don't fail if .env file doesn't exist; real env vars take precedence
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %s or %s, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.UpcomingDaysAhead < 0 {
		return fmt.Errorf("UPCOMING_DAYS_AHEAD must not be negative")
	}

	scheduleType := domain.ScheduleType(c.Business.DefaultScheduleType)
	if scheduleType == "" || !scheduleType.Valid() {
		return fmt.Errorf("DEFAULT_SCHEDULE_TYPE must be annuity or differentiated, got %q", c.Business.DefaultScheduleType)
	}

	if _, err := cron.ParseStandard(c.Scheduler.Cron); err != nil {
		return fmt.Errorf("SCHEDULER_CRON must be a valid cron spec: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid time zone: %w", err)
	}

	durations := map[string]string{
		"SERVER_READ_TIMEOUT":  c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": c.Server.WriteTimeout,
		"LOCK_TTL":             c.Business.LockTTL,
		"HEALTH_CHECK_TIMEOUT": c.Health.Timeout,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// UsesRedis reports whether a Redis URL is configured
func (c *Config) UsesRedis() bool {
	return strings.TrimSpace(c.Redis.URL) != ""
}

// GetDefaultScheduleType returns the schedule type new loans get when none is given
func (c *Config) GetDefaultScheduleType() domain.ScheduleType {
	return domain.ScheduleType(c.Business.DefaultScheduleType)
}

// GetSchedulerLocation returns the time zone the reminder job runs in
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetLockTTL returns how long a per-loan lock is held at most
func (c *Config) GetLockTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.LockTTL)
	return ttl
}

// GetReadTimeout returns the HTTP server read timeout
func (c *Config) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// GetWriteTimeout returns the HTTP server write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
