package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL   string `yaml:"database_url" validate:"required"`
	Port          string `yaml:"port" validate:"required,numeric"`
	Timezone      string `yaml:"timezone" validate:"required"`
	PublicBaseURL string `yaml:"public_base_url" validate:"required,url"`

	JWTSecret string        `yaml:"jwt_secret" validate:"required,min=16"`
	JWTTTL    time.Duration `yaml:"jwt_ttl" validate:"gt=0"`

	StripeSecretKey     string `yaml:"stripe_secret_key"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret"`
	StripeCurrency      string `yaml:"stripe_currency" validate:"required,len=3"`

	SendGridAPIKey    string `yaml:"sendgrid_api_key"`
	SendGridFromEmail string `yaml:"sendgrid_from_email" validate:"omitempty,email"`
	SendGridFromName  string `yaml:"sendgrid_from_name"`

	TwilioAccountSID string `yaml:"twilio_account_sid"`
	TwilioAuthToken  string `yaml:"twilio_auth_token"`
	TwilioFromNumber string `yaml:"twilio_from_number" validate:"omitempty,e164"`

	CancellationNotice time.Duration `yaml:"cancellation_notice" validate:"gte=0"`
	PendingTTL         time.Duration `yaml:"pending_ttl" validate:"gt=0"`

	ReminderCron string `yaml:"reminder_cron" validate:"required"`
	ExpireCron   string `yaml:"expire_cron" validate:"required"`
	CompleteCron string `yaml:"complete_cron" validate:"required"`

	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat   string   `yaml:"log_format" validate:"oneof=json console"`

	location *time.Location
}

func defaults() Config {
	return Config{
		Port:               "8080",
		Timezone:           "UTC",
		PublicBaseURL:      "http://localhost:3000",
		JWTTTL:             24 * time.Hour,
		StripeCurrency:     "usd",
		SendGridFromName:   "StyleSync",
		CancellationNotice: 12 * time.Hour,
		PendingTTL:         time.Hour,
		ReminderCron:       "@every 1h",
		ExpireCron:         "@every 15m",
		CompleteCron:       "@every 1h",
		LogLevel:           "info",
		LogFormat:          "json",
	}
}

// Load reads .env (if present), then the optional YAML file named by
// SALON_CONFIG, then environment variables, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("SALON_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Port, "PORT")
	setString(&cfg.Timezone, "SALON_TIMEZONE")
	setString(&cfg.PublicBaseURL, "PUBLIC_BASE_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.StripeSecretKey, "STRIPE_SECRET_KEY")
	setString(&cfg.StripeWebhookSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&cfg.StripeCurrency, "STRIPE_CURRENCY")
	setString(&cfg.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&cfg.SendGridFromEmail, "SENDGRID_FROM_EMAIL")
	setString(&cfg.SendGridFromName, "SENDGRID_FROM_NAME")
	setString(&cfg.TwilioAccountSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.TwilioAuthToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.TwilioFromNumber, "TWILIO_FROM_NUMBER")
	setString(&cfg.ReminderCron, "REMINDER_CRON")
	setString(&cfg.ExpireCron, "EXPIRE_CRON")
	setString(&cfg.CompleteCron, "COMPLETE_CRON")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	for key, dst := range map[string]*time.Duration{
		"JWT_TTL":             &cfg.JWTTTL,
		"CANCELLATION_NOTICE": &cfg.CancellationNotice,
		"PENDING_TTL":         &cfg.PendingTTL,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s must be a duration like 12h (got %q): %w", key, v, err)
		}
		*dst = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	c.StripeCurrency = strings.ToLower(c.StripeCurrency)
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("SALON_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location is the salon's time zone; every date and working window is
// interpreted in it.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) StripeEnabled() bool {
	return c.StripeSecretKey != ""
}
