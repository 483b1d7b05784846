// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

// Package config loads and validates the Ledgerline configuration from
// defaults, an optional YAML file, command-line flags, and environment
// overrides for secrets.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/ledgerline/ledgerline/pkg/auth"
	"github.com/ledgerline/ledgerline/internal/store"
)

// Environment variables that override file and flag values. Secrets belong
// here rather than in config files or process arguments.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "LEDGERLINE_JWT_SECRET"
)

// Config is the full Ledgerline configuration tree.
type Config struct {
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Links    Links    `koanf:"links"`
	Email    Email    `koanf:"email"`
	Server   Server   `koanf:"server"`
	Log      Log      `koanf:"log"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	URL             string `koanf:"url"`
	ConnectAttempts int    `koanf:"connect-attempts"`
}

// Auth holds credential and token lifecycle settings.
type Auth struct {
	JWTSecret         string        `koanf:"jwt-secret"`
	BcryptCost        int           `koanf:"bcrypt-cost"`
	AccessTokenTTL    time.Duration `koanf:"access-token-ttl"`
	ConfirmEmailTTL   time.Duration `koanf:"confirm-email-ttl"`
	ForgotPasswordTTL time.Duration `koanf:"forgot-password-ttl"`
}

// Links holds the frontend pages that notification links point at.
type Links struct {
	ConfirmEmailURL  string `koanf:"confirm-email-url"`
	ResetPasswordURL string `koanf:"reset-password-url"`
}

// Email holds the sender identity stamped on outgoing notifications. The
// mail transport itself lives in the embedding application.
type Email struct {
	SenderName  string `koanf:"sender-name"`
	FromAddress string `koanf:"from-address"`
}

// Server holds HTTP listener settings.
type Server struct {
	MetricsAddr string `koanf:"metrics-addr"`
}

// Log holds logging settings.
type Log struct {
	Format string `koanf:"format"`
}

// Default returns the configuration used when a key is set nowhere else.
func Default() Config {
	return Config{
		Database: Database{
			ConnectAttempts: store.DefaultConnectAttempts,
		},
		Auth: Auth{
			BcryptCost:        auth.DefaultBcryptCost,
			AccessTokenTTL:    15 * time.Minute,
			ConfirmEmailTTL:   24 * time.Hour,
			ForgotPasswordTTL: time.Hour,
		},
		Email: Email{
			SenderName:  "The Ledgerline Team",
			FromAddress: "no-reply@ledgerline.dev",
		},
		Server: Server{
			MetricsAddr: "127.0.0.1:9100",
		},
		Log: Log{
			Format: "json",
		},
	}
}

// Load merges defaults, the optional YAML file at path, the given flag set,
// and environment secret overrides, in that precedence order (later wins).
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "merge flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if url := os.Getenv(EnvDatabaseURL); url != "" {
		cfg.Database.URL = url
	}
	if secret := os.Getenv(EnvJWTSecret); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	return cfg, nil
}

// Validate checks that the configuration can actually run the service.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url is required (or set %s)", EnvDatabaseURL)
	}
	if c.Auth.JWTSecret == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.jwt-secret is required (or set %s)", EnvJWTSecret)
	}
	if len(c.Auth.JWTSecret) < auth.MinSigningSecretLen {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.jwt-secret must be at least %d bytes", auth.MinSigningSecretLen)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.ConfirmEmailTTL <= 0 || c.Auth.ForgotPasswordTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth token TTLs must be positive")
	}
	if c.Links.ConfirmEmailURL == "" || c.Links.ResetPasswordURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("links.confirm-email-url and links.reset-password-url are required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log.format must be \"json\" or \"text\", got %q", c.Log.Format)
	}
	return nil
}

// ServiceConfig projects the loaded configuration onto the auth service's
// settings struct.
func (c Config) ServiceConfig() auth.ServiceConfig {
	return auth.ServiceConfig{
		AccessTokenTTL:    c.Auth.AccessTokenTTL,
		ConfirmEmailTTL:   c.Auth.ConfirmEmailTTL,
		ForgotPasswordTTL: c.Auth.ForgotPasswordTTL,
		ConfirmEmailURL:   c.Links.ConfirmEmailURL,
		ResetPasswordURL:  c.Links.ResetPasswordURL,
		SenderName:        c.Email.SenderName,
	}
}
