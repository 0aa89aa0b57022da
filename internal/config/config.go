// Package config loads the API configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// MongoDB
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"machinery"`

	// Tokens and passwords
	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"100h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Comma-separated list of allowed origins
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	BodyLimit          int    `env:"BODY_LIMIT" envDefault:"33554432"`

	// Development-only admin seeding route
	EnableSeedRoute bool      `env:"ENABLE_SEED_ROUTE" envDefault:"false"`
	SeedAdmin       SeedAdmin `envPrefix:"SEED_ADMIN_"`

	// MinIO, holds uploaded machine images
	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"machine-images"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MaxImageSize   int64  `env:"MAX_IMAGE_SIZE" envDefault:"10485760"`
}

// SeedAdmin is the account created by the seeding route.
type SeedAdmin struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Email    string `env:"EMAIL" envDefault:"admin@example.com"`
	Password string `env:"PASSWORD" envDefault:"12345678"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AllowedOrigins normalizes the comma-separated origin list for the CORS
// middleware.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate rejects combinations that would leave the API insecure or unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.EnableSeedRoute && !c.IsDevelopment() {
		errs = append(errs, errors.New("ENABLE_SEED_ROUTE is only allowed when APP_ENV=development"))
	}
	if c.MaxImageSize <= 0 {
		errs = append(errs, errors.New("MAX_IMAGE_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using environment variables", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
