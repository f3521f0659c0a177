package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "EDGECAST"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}
	loadDotEnv()

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()

	// Read the expanded configuration
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}
	loadDotEnv()

	v := newViper()
	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
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

	// EDGECAST_STAKING_MIN_EDGE overrides staking.min_edge
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key so environment overrides apply even when the
// file omits it
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "edgecast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("staking.min_confidence", 4)
	v.SetDefault("staking.extreme_low", 0.05)
	v.SetDefault("staking.extreme_high", 0.95)
	v.SetDefault("staking.min_edge", 0.02)
	v.SetDefault("staking.max_stake", 1.0)
	v.SetDefault("staking.precision", 2)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.market_ttl_seconds", 30)
	v.SetDefault("cache.inference_ttl_seconds", 600)
	v.SetDefault("cache.cleanup_interval_seconds", 60)

	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.max_requests", 30)
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("rate_limit.identity", "evaluation")

	v.SetDefault("evaluation.batch_size", 5)
	v.SetDefault("evaluation.batch_delay_millis", 1000)
	v.SetDefault("evaluation.item_timeout_seconds", 30)
	v.SetDefault("evaluation.max_markets", 0)

	for _, section := range []string{"market_data", "inference", "settlement"} {
		v.SetDefault(section+".base_url", "http://localhost:8000")
		v.SetDefault(section+".api_key", "")
		v.SetDefault(section+".timeout_seconds", 10)
		v.SetDefault(section+".max_retries", 3)
		v.SetDefault(section+".retry_wait_min_millis", 500)
		v.SetDefault(section+".retry_wait_max_millis", 5000)
		v.SetDefault(section+".rate_limit_per_second", 5.0)
		v.SetDefault(section+".circuit_breaker_max", 5)
	}

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "edgecast.db")
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.name", "edgecast")
	v.SetDefault("storage.database.user", "edgecast")
	v.SetDefault("storage.database.password", "")
	v.SetDefault("storage.database.ssl_mode", "disable")
	v.SetDefault("storage.database.max_connections", 10)
	v.SetDefault("storage.database.max_idle_connections", 2)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "edgecast")

	v.SetDefault("schedule.evaluate", "@every 15m")
	v.SetDefault("schedule.reconcile", "@hourly")
	v.SetDefault("schedule.run_on_start", false)

	v.SetDefault("backtest.lookback_days", 30)
	v.SetDefault("backtest.output_path", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.region", "us-east-1")
	v.SetDefault("secrets.secret_name", "")
}

// loadDotEnv loads .env from the working directory when present; variables
// already set in the environment win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}
