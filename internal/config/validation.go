// Package config provides configuration management for the NotiaBet service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/notiabet/internal/oddsmath"
	"github.com/yourusername/notiabet/internal/timebucket"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("reftimezone", validateTimezone)
	_ = v.RegisterValidation("oddsformat", validateOddsFormat)
	_ = v.RegisterValidation("locale", validateLocale)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateTimezone requires an IANA zone name. "Local" is rejected because
// day bucketing must not follow the host's zone.
func validateTimezone(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || strings.EqualFold(name, "Local") {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

func validateOddsFormat(fl validator.FieldLevel) bool {
	_, ok := oddsmath.ParseOddsFormat(fl.Field().String())
	return ok
}

func validateLocale(fl validator.FieldLevel) bool {
	return timebucket.SupportedLocale(fl.Field().String())
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	ps := cfg.PredictionService
	if ps.RetryAttempts > 0 && ps.RetryWaitMinMillis > ps.RetryWaitMaxMillis {
		return fmt.Errorf("retry_wait_min_millis cannot exceed retry_wait_max_millis")
	}

	if cfg.IsProduction() && ps.MockMode {
		return fmt.Errorf("mock_mode must be disabled in production")
	}

	if cfg.Scheduler.Enabled && cfg.Scheduler.RefreshIntervalSeconds == 0 {
		return fmt.Errorf("scheduler.refresh_interval_seconds is required when the scheduler is enabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "reftimezone":
			fmt.Fprintf(&b, "- Field '%s' must be an IANA timezone name, got '%v'\n", field, value)
		case "oddsformat":
			fmt.Fprintf(&b, "- Field '%s' must be one of: AMERICAN, DECIMAL\n", field)
		case "locale":
			fmt.Fprintf(&b, "- Field '%s' must be an en or es locale, got '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
