package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	MongoDB  MongoDBConfig
	Identity IdentityConfig
	WhatsApp WhatsAppConfig
	Sheets   SheetsConfig
	Alerts   AlertsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	LogLevel       string
	AllowedOrigins []string
}

// StoreConfig selects the document store backing the record collections.
type StoreConfig struct {
	Driver     string
	SeedSample bool
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// IdentityConfig points at the hosted identity provider. Authentication is disabled
// when BaseURL is empty.
type IdentityConfig struct {
	BaseURL string
	APIKey  string
}

// Enabled reports whether requests must carry a verified session.
func (c IdentityConfig) Enabled() bool {
	return c.BaseURL != ""
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	Recipient     string
	// AppSecret signs webhook callbacks (X-Hub-Signature-256). Empty skips the check.
	AppSecret string
	// AllowedSenders are the phone numbers whose chat commands are applied.
	AllowedSenders []string
}

// WebhookEnabled reports whether the inbound webhook is mounted.
func (c WhatsAppConfig) WebhookEnabled() bool {
	return c.VerifyToken != ""
}

// Enabled reports whether outbound notifications are configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the Google Sheets export sink is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// AlertsConfig holds scheduler-related settings.
type AlertsConfig struct {
	SweepSchedule  string
	DigestSchedule string
	Timezone       string
	LookaheadDays  int
}

// Location resolves the configured timezone.
func (c AlertsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// missing .env files are fine when configuration comes from the environment
		_ = godotenv.Load()
	}

	lookahead, err := strconv.Atoi(getenvWithDefault("ALERT_LOOKAHEAD_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("ALERT_LOOKAHEAD_DAYS must be an integer: %w", err)
	}
	seed, err := strconv.ParseBool(getenvWithDefault("SEED_SAMPLE_DATA", "true"))
	if err != nil {
		return nil, fmt.Errorf("SEED_SAMPLE_DATA must be a boolean: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			LogLevel:       getenvWithDefault("LOG_LEVEL", "info"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getenvWithDefault("STORE_DRIVER", DriverMemory)),
			SeedSample: seed,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "dairyflow"),
		},
		Identity: IdentityConfig{
			BaseURL: os.Getenv("IDENTITY_BASE_URL"),
			APIKey:  os.Getenv("IDENTITY_API_KEY"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:    os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:  os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:    os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:        getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:     getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Recipient:      os.Getenv("WHATSAPP_RECIPIENT"),
			AppSecret:      os.Getenv("META_APP_SECRET"),
			AllowedSenders: splitList(getenvWithDefault("WHATSAPP_ALLOWED_SENDERS", os.Getenv("WHATSAPP_RECIPIENT"))),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Alerts: AlertsConfig{
			SweepSchedule:  getenvWithDefault("ALERT_CRON_SCHEDULE", "0 6 * * *"),
			DigestSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:       getenvWithDefault("TIMEZONE", "UTC"),
			LookaheadDays:  lookahead,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and consistent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided when STORE_DRIVER=mongo")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if (c.Identity.BaseURL == "") != (c.Identity.APIKey == "") {
		return errors.New("IDENTITY_BASE_URL and IDENTITY_API_KEY must be provided together")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.Recipient == "":
			return errors.New("WHATSAPP_RECIPIENT must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.WhatsApp.WebhookEnabled() && len(c.WhatsApp.AllowedSenders) == 0 {
		return errors.New("WHATSAPP_ALLOWED_SENDERS must be provided when META_VERIFY_TOKEN is set")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Alerts.SweepSchedule == "" {
		return errors.New("ALERT_CRON_SCHEDULE must be provided")
	}
	if c.Alerts.DigestSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}
	if _, err := c.Alerts.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.Alerts.LookaheadDays <= 0 {
		return errors.New("ALERT_LOOKAHEAD_DAYS must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
