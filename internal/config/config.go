// Package config provides configuration management for the NotiaBet service.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App               AppConfig               `mapstructure:"app" validate:"required"`
	PredictionService PredictionServiceConfig `mapstructure:"prediction_service" validate:"required"`
	Calendar          CalendarConfig          `mapstructure:"calendar" validate:"required"`
	Analytics         AnalyticsConfig         `mapstructure:"analytics" validate:"required"`
	Server            ServerConfig            `mapstructure:"server" validate:"required"`
	Scheduler         SchedulerConfig         `mapstructure:"scheduler"`
	Metrics           MetricsConfig           `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// PredictionServiceConfig represents the remote prediction service
type PredictionServiceConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int     `mapstructure:"retry_attempts" validate:"gte=0,lte=5"`
	RetryWaitMinMillis int     `mapstructure:"retry_wait_min_millis" validate:"gte=0"`
	RetryWaitMaxMillis int     `mapstructure:"retry_wait_max_millis" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	DefaultSportsbook  string  `mapstructure:"default_sportsbook" validate:"required"`
	MockMode           bool    `mapstructure:"mock_mode"`
}

// CalendarConfig represents day bucketing configuration
type CalendarConfig struct {
	ReferenceTimezone string `mapstructure:"reference_timezone" validate:"required,reftimezone"`
	Locale            string `mapstructure:"locale" validate:"omitempty,locale"`
}

// AnalyticsConfig represents odds analytics configuration
type AnalyticsConfig struct {
	ValueEdgeThreshold float64 `mapstructure:"value_edge_threshold" validate:"gte=0,lte=100"`
	OddsFormat         string  `mapstructure:"odds_format" validate:"required,oddsformat"`
}

// ServerConfig represents the HTTP surface
type ServerConfig struct {
	Port                 int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins       []string `mapstructure:"allowed_origins"`
	BoardCacheTTLSeconds int      `mapstructure:"board_cache_ttl_seconds" validate:"required,gt=0"`
}

// SchedulerConfig represents background board refresh
type SchedulerConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	RefreshIntervalSeconds int  `mapstructure:"refresh_interval_seconds" validate:"omitempty,gte=5"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RequestTimeout returns the prediction service round-trip bound
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.PredictionService.TimeoutSeconds) * time.Second
}

// BoardCacheTTL returns how long a fetched board is served without refetching
func (c *Config) BoardCacheTTL() time.Duration {
	return time.Duration(c.Server.BoardCacheTTLSeconds) * time.Second
}

// RefreshInterval returns the scheduler refresh period
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Scheduler.RefreshIntervalSeconds) * time.Second
}
