package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Session   SessionConfig
	MongoDB   MongoDBConfig
	Google    GoogleConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port      string `env:"PORT" envDefault:"3000"`
	PublicDir string `env:"PUBLIC_DIR" envDefault:"public"`
}

// SessionConfig controls the session cookie and its server-side record.
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	TouchAfter   time.Duration `env:"SESSION_TOUCH_AFTER" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

// MongoDBConfig holds settings for MongoDB. An empty URI selects the
// in-memory store.
type MongoDBConfig struct {
	URI    string `env:"MONGODB_URI"`
	DBName string `env:"MONGODB_DB_NAME" envDefault:"hivetool"`
}

// GoogleConfig holds the OAuth client used for federated sign-in.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	CallbackURL  string `env:"GOOGLE_CALLBACK_URL"`
}

// Enabled reports whether federated sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.CallbackURL != ""
}

// SheetsConfig contains configuration required to export digests to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string `env:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	SpreadsheetID   string `env:"GOOGLE_SHEET_DATABASE_ID"`
}

// Enabled reports whether the digest export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used
// to notify the apiary operator.
type WhatsAppConfig struct {
	AccessToken   string `env:"WHATSAPP_TOKEN"`
	PhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID"`
	OperatorID    string `env:"WHATSAPP_OPERATOR_ID"`
	BaseURL       string `env:"WHATSAPP_BASE_URL" envDefault:"https://graph.facebook.com"`
	APIVersion    string `env:"WHATSAPP_API_VERSION" envDefault:"v20.0"`
}

// Enabled reports whether operator notifications are configured.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.OperatorID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string `env:"REPORT_CRON_SCHEDULE" envDefault:"0 20 * * 5"`
	Timezone     string `env:"TIMEZONE" envDefault:"UTC"`
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("PORT must be provided")
	}

	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET must be provided")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	g := c.Google
	if (g.ClientID != "" || g.ClientSecret != "" || g.CallbackURL != "") && !g.Enabled() {
		return errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_CALLBACK_URL must be provided together")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	return nil
}
