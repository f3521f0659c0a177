// Package config provides configuration management for the edgecast evaluation pipeline.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Staking    StakingConfig    `mapstructure:"staking" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	MarketData UpstreamConfig   `mapstructure:"market_data" validate:"required"`
	Inference  UpstreamConfig   `mapstructure:"inference" validate:"required"`
	Settlement UpstreamConfig   `mapstructure:"settlement" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StakingConfig holds the stake sizing guardrails
type StakingConfig struct {
	MinConfidence int     `mapstructure:"min_confidence" validate:"required,gte=1,lte=10"`
	ExtremeLow    float64 `mapstructure:"extreme_low" validate:"gte=0,lt=1"`
	ExtremeHigh   float64 `mapstructure:"extreme_high" validate:"required,gt=0,lte=1"`
	MinEdge       float64 `mapstructure:"min_edge" validate:"gte=0,lt=1"`
	MaxStake      float64 `mapstructure:"max_stake" validate:"required,gt=0,lte=1"`
	Precision     int     `mapstructure:"precision" validate:"gte=0,lte=8"`
}

// CacheConfig represents analysis cache configuration
type CacheConfig struct {
	Backend                string `mapstructure:"backend" validate:"required,oneof=memory redis"`
	MarketTTLSeconds       int    `mapstructure:"market_ttl_seconds" validate:"required,gt=0"`
	InferenceTTLSeconds    int    `mapstructure:"inference_ttl_seconds" validate:"required,gt=0"`
	CleanupIntervalSeconds int    `mapstructure:"cleanup_interval_seconds" validate:"required,gt=0"`
}

// RateLimitConfig represents the sliding window limiter in front of inference
type RateLimitConfig struct {
	Backend       string `mapstructure:"backend" validate:"required,oneof=memory redis"`
	MaxRequests   int    `mapstructure:"max_requests" validate:"required,gt=0"`
	WindowSeconds int    `mapstructure:"window_seconds" validate:"required,gt=0"`
	Identity      string `mapstructure:"identity" validate:"required"`
}

// EvaluationConfig represents batch evaluation configuration
type EvaluationConfig struct {
	BatchSize          int `mapstructure:"batch_size" validate:"required,gt=0"`
	BatchDelayMillis   int `mapstructure:"batch_delay_millis" validate:"gte=0"`
	ItemTimeoutSeconds int `mapstructure:"item_timeout_seconds" validate:"required,gt=0"`
	MaxMarkets         int `mapstructure:"max_markets" validate:"gte=0"`
}

// UpstreamConfig represents one HTTP provider
type UpstreamConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	APIKey             string  `mapstructure:"api_key"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMinMillis int     `mapstructure:"retry_wait_min_millis" validate:"gte=0"`
	RetryWaitMaxMillis int     `mapstructure:"retry_wait_max_millis" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CircuitBreakerMax  int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// StorageConfig selects the recommendation store
type StorageConfig struct {
	Driver     string         `mapstructure:"driver" validate:"required,storagedriver"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Database   DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// RedisConfig represents the shared cache and limiter backend
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ScheduleConfig represents the serve command's cron schedule
type ScheduleConfig struct {
	Evaluate   string `mapstructure:"evaluate" validate:"required"`
	Reconcile  string `mapstructure:"reconcile" validate:"required"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// BacktestConfig represents backtest reporting configuration
type BacktestConfig struct {
	LookbackDays int    `mapstructure:"lookback_days" validate:"required,gt=0"`
	OutputPath   string `mapstructure:"output_path"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig represents the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
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

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	db := c.Storage.Database
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// MarketTTL returns the market snapshot cache TTL
func (c CacheConfig) MarketTTL() time.Duration {
	return time.Duration(c.MarketTTLSeconds) * time.Second
}

// InferenceTTL returns the inference result cache TTL
func (c CacheConfig) InferenceTTL() time.Duration {
	return time.Duration(c.InferenceTTLSeconds) * time.Second
}

// CleanupInterval returns how often expired in-memory entries are purged
func (c CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

// Window returns the limiter window
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// BatchDelay returns the pause between evaluation batches
func (c EvaluationConfig) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMillis) * time.Millisecond
}

// ItemTimeout returns the deadline for evaluating a single market
func (c EvaluationConfig) ItemTimeout() time.Duration {
	return time.Duration(c.ItemTimeoutSeconds) * time.Second
}

// Timeout returns the per-request timeout
func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
