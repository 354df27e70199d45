// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github-activity-dashboard/internal/model"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	HTTPAddr string `mapstructure:"HTTP_ADDR" validate:"required"`

	GithubAPIURL      string        `mapstructure:"GITHUB_API_URL" validate:"required,url"`
	GithubToken       string        `mapstructure:"GITHUB_TOKEN"`
	GithubUsername    string        `mapstructure:"GITHUB_USERNAME" validate:"omitempty,max=39"`
	HTTPClientTimeout time.Duration `mapstructure:"HTTP_CLIENT_TIMEOUT" validate:"gte=0"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST" validate:"gte=1"`

	ProfileTitle string `mapstructure:"PROFILE_TITLE"`
	ProfileBio   string `mapstructure:"PROFILE_BIO"`

	ShutdownGrace time.Duration `mapstructure:"SHUTDOWN_GRACE" validate:"gt=0"`
}

var keys = []string{
	"LOG_LEVEL", "HTTP_ADDR",
	"GITHUB_API_URL", "GITHUB_TOKEN", "GITHUB_USERNAME", "HTTP_CLIENT_TIMEOUT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"PROFILE_TITLE", "PROFILE_BIO",
	"SHUTDOWN_GRACE",
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", "0s")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("SHUTDOWN_GRACE", "10s")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		// AutomaticEnv alone does not surface keys without a default to Unmarshal.
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// Profile applies the configured title and fallback bio on top of base. The
// displayed name always comes from GitHub, so it has no setting.
func (c *Config) Profile(base model.UserProfile) model.UserProfile {
	if c.ProfileTitle != "" {
		base.Title = c.ProfileTitle
	}
	if c.ProfileBio != "" {
		base.Bio = c.ProfileBio
	}
	return base
}
