package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("storagedriver", validateStorageDriver)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production", "test":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateStorageDriver validates the recommendation store driver
func validateStorageDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "postgres", "sqlite":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Staking.ExtremeLow >= cfg.Staking.ExtremeHigh {
		return fmt.Errorf("staking extreme_low must be below extreme_high")
	}

	for name, up := range map[string]UpstreamConfig{
		"market_data": cfg.MarketData,
		"inference":   cfg.Inference,
		"settlement":  cfg.Settlement,
	} {
		if up.RetryWaitMaxMillis < up.RetryWaitMinMillis {
			return fmt.Errorf("%s retry_wait_max_millis cannot be below retry_wait_min_millis", name)
		}
	}

	switch cfg.Storage.Driver {
	case "postgres":
		db := cfg.Storage.Database
		if db.Host == "" || db.Name == "" || db.User == "" || db.Port == 0 {
			return fmt.Errorf("postgres storage requires host, port, name and user")
		}
		if db.MaxIdleConnections > db.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite storage requires sqlite_path")
		}
	}

	if (cfg.Cache.Backend == "redis" || cfg.RateLimit.Backend == "redis") && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis backend requires redis.addr")
	}

	if cfg.Secrets.Enabled && (cfg.Secrets.Region == "" || cfg.Secrets.SecretName == "") {
		return fmt.Errorf("secrets overlay requires region and secret_name")
	}

	// Validate production environment requirements
	if cfg.IsProduction() && cfg.Storage.Driver == "postgres" && cfg.Storage.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production, test\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "storagedriver":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: postgres, sqlite\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production should not have test credentials
		if isTestCredential(cfg.Inference.APIKey) {
			return fmt.Errorf("production environment should not use a test inference API key")
		}
		if cfg.App.LogLevel == "debug" {
			return fmt.Errorf("debug logging should be disabled in production")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
