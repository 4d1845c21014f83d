// Package config loads the process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const developmentJWTSecret = "development-only-secret-change-me"

// Config is the root configuration of the API process.
type Config struct {
	Env      string `validate:"required,oneof=development production test"`
	Port     string `validate:"required"`
	Database DatabaseConfig
	JWT      JWTConfig
	RabbitMQ RabbitMQConfig
}

// DatabaseConfig selects and seeds the store.
type DatabaseConfig struct {
	Driver string `validate:"required,oneof=sqlite postgres"`
	DSN    string `validate:"required"`
	Seed   bool
	Debug  bool
}

// JWTConfig describes the bearer tokens the API issues and accepts.
type JWTConfig struct {
	Secret   string        `validate:"required,min=16"`
	Issuer   string        `validate:"required"`
	Audience string        `validate:"required"`
	TTL      time.Duration `validate:"required,gt=0"`
}

// RabbitMQConfig holds the broker URL. An empty URL disables drink events.
type RabbitMQConfig struct {
	URL string `validate:"omitempty,url"`
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads the configuration. Values from a .env file never override
// variables already present in the environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "drinks.db")
	v.SetDefault("DB_SEED", true)
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "drinks-api")
	v.SetDefault("JWT_AUDIENCE", "drinks-api-clients")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.AutomaticEnv()

	cfg := &Config{
		Env:  v.GetString("APP_ENV"),
		Port: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
			Seed:   v.GetBool("DB_SEED"),
			Debug:  v.GetBool("DB_DEBUG"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			Issuer:   v.GetString("JWT_ISSUER"),
			Audience: v.GetString("JWT_AUDIENCE"),
			TTL:      v.GetDuration("JWT_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: v.GetString("RABBITMQ_URL"),
		},
	}

	if cfg.JWT.Secret == "" && cfg.IsDevelopment() {
		cfg.JWT.Secret = developmentJWTSecret
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
