// Package config loads the service configuration from the environment.
//
// Variables use the SHOP_ prefix and a double underscore between nesting
// levels, so SHOP_SERVER__READ_TIMEOUT maps to server.read_timeout. A .env
// file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SHOP_"

type Config struct {
	Env      string         `koanf:"env" validate:"required,oneof=local development production"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Log      LogConfig      `koanf:"log" validate:"required"`
	Auth     AuthConfig     `koanf:"auth"`
}

type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"required,oneof=postgres sqlite"`
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig enables bearer-token checks on write routes when OIDCIssuer is set.
type AuthConfig struct {
	OIDCIssuer   string `koanf:"oidc_issuer" validate:"omitempty,url"`
	OIDCClientID string `koanf:"oidc_client_id" validate:"required_with=OIDCIssuer"`
}

func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

func defaults() map[string]any {
	return map[string]any{
		"env":                         "local",
		"server.port":                 "8080",
		"server.read_timeout":         "15s",
		"server.write_timeout":        "15s",
		"server.idle_timeout":         "60s",
		"server.shutdown_timeout":     "10s",
		"server.cors_allowed_origins": []string{"*"},
		"database.driver":             "sqlite",
		"database.dsn":                "shop.db",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.auto_migrate":       true,
		"log.level":                   "info",
	}
}

// listKeys hold comma separated values in the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// envKey turns SHOP_DATABASE__MAX_OPEN_CONNS into database.max_open_conns.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func envValue(s, value string) (string, any) {
	key := envKey(s)
	if listKeys[key] {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}

// Load reads defaults, then the environment, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
