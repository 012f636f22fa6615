package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "STORE_DRIVER", "SEED_SAMPLE_DATA",
	"MONGODB_URI", "MONGODB_DB_NAME", "IDENTITY_BASE_URL", "IDENTITY_API_KEY",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN", "WHATSAPP_BASE_URL",
	"WHATSAPP_API_VERSION", "WHATSAPP_RECIPIENT", "GOOGLE_SHEETS_CREDENTIALS_PATH",
	"GOOGLE_SHEET_DATABASE_ID", "ALERT_CRON_SCHEDULE", "DIGEST_CRON_SCHEDULE", "TIMEZONE",
	"ALERT_LOOKAHEAD_DAYS", "META_APP_SECRET", "WHATSAPP_ALLOWED_SENDERS",
}

// clearEnv blanks every key so values from the host environment do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.LogLevel != "info" {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Store.Driver != DriverMemory || !cfg.Store.SeedSample {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Identity.Enabled() || cfg.WhatsApp.Enabled() || cfg.Sheets.Enabled() {
		t.Fatalf("collaborators should be disabled by default")
	}
	if cfg.Alerts.LookaheadDays != 7 || cfg.Alerts.SweepSchedule != "0 6 * * *" || cfg.Alerts.DigestSchedule != "0 20 * * *" {
		t.Fatalf("unexpected alerts config %+v", cfg.Alerts)
	}
}

func TestLoadAllowedSendersFallBackToRecipient(t *testing.T) {
	clearEnv(t)
	t.Setenv("META_VERIFY_TOKEN", "tok")
	t.Setenv("WHATSAPP_RECIPIENT", "224600000000")

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.WhatsApp.AllowedSenders; len(got) != 1 || got[0] != "224600000000" {
		t.Fatalf("unexpected allowed senders %v", got)
	}

	t.Setenv("WHATSAPP_ALLOWED_SENDERS", "224600000001, 224600000002")
	cfg, err = Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.WhatsApp.AllowedSenders; len(got) != 2 || got[1] != "224600000002" {
		t.Fatalf("unexpected allowed senders %v", got)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range configKeys {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	body := strings.Join([]string{
		"APP_PORT=9090",
		"STORE_DRIVER=MONGO",
		"MONGODB_URI=mongodb://localhost:27017",
		"CORS_ALLOWED_ORIGINS=http://localhost:5173, https://farm.example.com",
		"SEED_SAMPLE_DATA=false",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		for _, key := range configKeys {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Store.Driver != DriverMongo || cfg.Store.SeedSample {
		t.Fatalf("env file values not applied: %+v %+v", cfg.Server, cfg.Store)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://farm.example.com" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALERT_LOOKAHEAD_DAYS", "soon")
	if _, err := Load(missingEnvFile(t)); err == nil {
		t.Fatalf("expected error for non-numeric lookahead")
	}
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Store:  StoreConfig{Driver: DriverMemory},
		Alerts: AlertsConfig{SweepSchedule: "0 6 * * *", DigestSchedule: "0 20 * * *", Timezone: "UTC", LookaheadDays: 7},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		edit    func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"mongo without uri", func(c *Config) { c.Store.Driver = DriverMongo }, "MONGODB_URI"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, "STORE_DRIVER"},
		{"identity half set", func(c *Config) { c.Identity.BaseURL = "https://id.example.com" }, "IDENTITY_API_KEY"},
		{"whatsapp without recipient", func(c *Config) {
			c.WhatsApp = WhatsAppConfig{AccessToken: "t", PhoneNumberID: "p", BaseURL: "b", APIVersion: "v"}
		}, "WHATSAPP_RECIPIENT"},
		{"webhook without senders", func(c *Config) { c.WhatsApp.VerifyToken = "tok" }, "WHATSAPP_ALLOWED_SENDERS"},
		{"webhook with senders", func(c *Config) {
			c.WhatsApp.VerifyToken = "tok"
			c.WhatsApp.AllowedSenders = []string{"224600000000"}
		}, ""},
		{"sheets half set", func(c *Config) { c.Sheets.SpreadsheetID = "sheet" }, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"bad timezone", func(c *Config) { c.Alerts.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"zero lookahead", func(c *Config) { c.Alerts.LookaheadDays = 0 }, "ALERT_LOOKAHEAD_DAYS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.edit(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}
}
