package config

import (
	"fmt"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Ledger store backends
const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Env         string   `envconfig:"ENV" default:"development"`
	Port        string   `envconfig:"PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	// Ledger store
	LedgerBackend       string `envconfig:"LEDGER_BACKEND" default:"postgres"`
	DatabaseURL         string `envconfig:"DATABASE_URL"`
	DatabaseAutoMigrate bool   `envconfig:"DATABASE_AUTO_MIGRATE" default:"true"`
	SupabaseURL         string `envconfig:"SUPABASE_URL"`
	SupabaseServiceKey  string `envconfig:"SUPABASE_SERVICE_KEY"`

	// Auth (HS256 access tokens issued by Supabase Auth)
	AuthJWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	AuthIssuer    string `envconfig:"AUTH_ISSUER"`
	AuthAudience  string `envconfig:"AUTH_AUDIENCE" default:"authenticated"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"100"`
	RateLimitBurst     int `envconfig:"RATE_LIMIT_BURST" default:"10"`

	// Business constants
	PartnerServiceRate    decimal.Decimal `envconfig:"PARTNER_SERVICE_RATE" default:"100"`
	FixedMonthlySalary    decimal.Decimal `envconfig:"FIXED_MONTHLY_SALARY" default:"5000"`
	ReopenRestoresRecords bool            `envconfig:"REOPEN_RESTORES_RECORDS" default:"true"`

	ClosingReminderCron string `envconfig:"CLOSING_REMINDER_CRON" default:"0 8 1 * *"`

	// S3 archive mirror, disabled when the bucket is empty
	S3Region           string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket           string `envconfig:"S3_BUCKET"`
	S3Endpoint         string `envconfig:"S3_ENDPOINT"` // Optional: for MinIO/LocalStack local dev
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LedgerBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the %s backend", BackendSupabase)
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required for the %s backend", BackendSupabase)
		}
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", BackendPostgres, BackendSupabase, c.LedgerBackend)
	}

	if c.IsProduction() && c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required in production")
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	if c.PartnerServiceRate.IsNegative() {
		return fmt.Errorf("PARTNER_SERVICE_RATE must not be negative")
	}
	if c.FixedMonthlySalary.IsNegative() {
		return fmt.Errorf("FIXED_MONTHLY_SALARY must not be negative")
	}
	if _, err := cron.ParseStandard(c.ClosingReminderCron); err != nil {
		return fmt.Errorf("CLOSING_REMINDER_CRON: %w", err)
	}
	return c.Settings().Validate()
}

// IsProduction returns true when the application runs in production
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}

// Settings builds the distribution settings handed to the closing engine
func (c *Config) Settings() domain.DistributionSettings {
	return domain.DistributionSettings{
		ServiceRate: c.PartnerServiceRate,
		FixedSalary: c.FixedMonthlySalary,
		Roster:      domain.DefaultRoster(),
	}
}

// S3 returns the archive mirror configuration
func (c *Config) S3() S3Config {
	return S3Config{
		Region:          c.S3Region,
		Bucket:          c.S3Bucket,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
		Endpoint:        c.S3Endpoint,
	}
}

// ArchiveMirrorEnabled reports whether closed months are mirrored to S3
func (c *Config) ArchiveMirrorEnabled() bool {
	return c.S3Bucket != ""
}
