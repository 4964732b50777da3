package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-change-in-production"

// Config holds application configuration loaded from the environment and an
// optional config file.
type Config struct {
	Env  string `mapstructure:"app_env"`
	Port string `mapstructure:"port"`

	DatabaseDriver string `mapstructure:"database_driver"`
	DatabaseURL    string `mapstructure:"database_url"`

	JWTSecret    string `mapstructure:"jwt_secret"`
	CookieDomain string `mapstructure:"cookie_domain"`

	ClientURL      string `mapstructure:"client_url"`
	AllowedOrigins string `mapstructure:"allowed_origins"`

	CatalogBaseURL string        `mapstructure:"catalog_base_url"`
	CatalogTimeout time.Duration `mapstructure:"catalog_timeout"`

	RedisURL string `mapstructure:"redis_url"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// UsingDevSecret is set when JWT_SECRET was not provided outside production.
	UsingDevSecret bool `mapstructure:"-"`
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Load reads configuration from environment variables and, if configPath
// points to an existing file, from that file. Environment wins.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app_env", "development")
	v.SetDefault("port", "3000")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_url", "otakulog.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cookie_domain", "")
	v.SetDefault("client_url", "")
	v.SetDefault("allowed_origins", "")
	v.SetDefault("catalog_base_url", "https://api.jikan.moe/v4")
	v.SetDefault("catalog_timeout", "10s")
	v.SetDefault("redis_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET environment variable is not set")
		}
		cfg.JWTSecret = devJWTSecret
		cfg.UsingDevSecret = true
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Origins returns the CORS allow-list: development defaults plus CLIENT_URL
// and the comma separated ALLOWED_ORIGINS.
func (c *Config) Origins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}

	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
