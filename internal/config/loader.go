// Package config provides configuration management for the NotiaBet service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NOTIABET_APP_LOG_LEVEL.
const EnvPrefix = "NOTIABET"

// DefaultPath is used when no config path is given
const DefaultPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key so AutomaticEnv can override keys the file omits.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "notiabet")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("prediction_service.base_url", "http://localhost:8000")
	v.SetDefault("prediction_service.timeout_seconds", 60)
	v.SetDefault("prediction_service.retry_attempts", 0)
	v.SetDefault("prediction_service.retry_wait_min_millis", 250)
	v.SetDefault("prediction_service.retry_wait_max_millis", 2000)
	v.SetDefault("prediction_service.rate_limit_per_second", 5.0)
	v.SetDefault("prediction_service.default_sportsbook", "fanduel")
	v.SetDefault("prediction_service.mock_mode", false)

	v.SetDefault("calendar.reference_timezone", "America/New_York")
	v.SetDefault("calendar.locale", "en")

	v.SetDefault("analytics.value_edge_threshold", 2.0)
	v.SetDefault("analytics.odds_format", "AMERICAN")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.board_cache_ttl_seconds", 60)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.refresh_interval_seconds", 120)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
