package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	v := viper.New()

	// Defaults matching DefaultServiceConfig
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_grace", "30s")
	v.SetDefault("database.url", "")
	v.SetDefault("detection.max_depth", 6)
	v.SetDefault("detection.sample_floor", 5)
	v.SetDefault("detection.sample_seed", 0)
	v.SetDefault("detection.fetch_timeout", "30s")
	v.SetDefault("detection.fetch_retries", 2)
	v.SetDefault("detection.extensions", []string{"xml", "gml"})
	v.SetDefault("detection.types_file", "")

	// Bind environment variables with GS_ prefix
	v.SetEnvPrefix("GS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &ServiceConfig{
		Host:           v.GetString("server.host"),
		Port:           v.GetInt("server.port"),
		RequestTimeout: v.GetDuration("server.request_timeout"),
		ShutdownGrace:  v.GetDuration("server.shutdown_grace"),
		DatabaseURL:    v.GetString("database.url"),
		Detection: DetectionConfig{
			MaxDepth:     v.GetInt("detection.max_depth"),
			SampleFloor:  v.GetInt("detection.sample_floor"),
			SampleSeed:   v.GetInt64("detection.sample_seed"),
			FetchTimeout: v.GetDuration("detection.fetch_timeout"),
			FetchRetries: v.GetInt("detection.fetch_retries"),
			Extensions:   v.GetStringSlice("detection.extensions"),
			TypesFile:    v.GetString("detection.types_file"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive values for timeouts and
// detection bounds.
func validateConfig(cfg *ServiceConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.ShutdownGrace <= 0 {
		return fmt.Errorf("shutdown_grace must be positive, got %v", cfg.ShutdownGrace)
	}
	if cfg.Detection.MaxDepth <= 0 {
		return fmt.Errorf("detection.max_depth must be positive, got %d", cfg.Detection.MaxDepth)
	}
	if cfg.Detection.SampleFloor <= 0 {
		return fmt.Errorf("detection.sample_floor must be positive, got %d", cfg.Detection.SampleFloor)
	}
	if cfg.Detection.FetchTimeout <= 0 {
		return fmt.Errorf("detection.fetch_timeout must be positive, got %v", cfg.Detection.FetchTimeout)
	}
	if cfg.Detection.FetchRetries < 0 {
		return fmt.Errorf("detection.fetch_retries must not be negative, got %d", cfg.Detection.FetchRetries)
	}
	if len(cfg.Detection.Extensions) == 0 {
		return fmt.Errorf("detection.extensions must not be empty")
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
// InConfig inspects the config file alone, so a GS_HMAC_SECRET environment
// variable does not trip the check.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("hmac_secret") || v.InConfig("server.hmac_secret") {
		return fmt.Errorf("HMAC secrets not allowed in config files (use GS_HMAC_SECRET environment variable)")
	}
	return nil
}
