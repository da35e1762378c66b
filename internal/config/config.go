// Package config loads and validates application configuration.
//
// Configuration comes from the environment, optionally seeded by a YAML
// file (CONFIG_FILE or the path passed to Load). Environment variables
// always win over file values, so deployments can ship a base file and
// override secrets per environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `yaml:"database_url"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (Next.js dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `yaml:"cors_origins"`

	// JWTSecret signs admin session tokens. Required.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTL is the admin session lifetime. Defaults to 24h.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// I18nDir is the directory holding translation bundles as
	// <locale>/<namespace>.json. Defaults to "./messages".
	I18nDir string `yaml:"i18n_dir"`
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.LogLevel, validation.Required,
			validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.JWTSecret, validation.Required),
		validation.Field(&c.TokenTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.I18nDir, validation.Required),
	)
}

// Load builds a Config from the optional YAML file at path (or the
// CONFIG_FILE environment variable when path is empty) overlaid with
// environment variables, then validates the result.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:        "8080",
		LogLevel:    "info",
		CORSOrigins: []string{"http://localhost:3000"},
		TokenTTL:    24 * time.Hour,
		I18nDir:     "./messages",
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// loadFile reads a YAML config file, expanding ${VAR} references against
// the environment before unmarshalling.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setEnv(&cfg.Port, "PORT")
	setEnv(&cfg.DatabaseURL, "DATABASE_URL")
	setEnv(&cfg.LogLevel, "LOG_LEVEL")
	setEnv(&cfg.JWTSecret, "JWT_SECRET")
	setEnv(&cfg.I18nDir, "I18N_DIR")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
}

// setEnv overwrites dst with the named environment variable when set.
func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
