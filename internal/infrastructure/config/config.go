package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,      default=8080"`
	Env           string `env:"ENV,       default=development"`
	LogLevel      string `env:"LOG_LEVEL, default=info"`
	SessionSecret string `env:"SESSION_SECRET"`

	// Base URLs of the external collaborators. All are required to be valid
	// absolute URLs except telemetry; startup fails fast otherwise.
	IdentityBaseURL string `env:"IDENTITY_SERVICE_BASE_URL"`
	UserBaseURL     string `env:"USER_SERVICE_BASE_URL"`
	CatalogBaseURL  string `env:"CATALOG_SERVICE_BASE_URL"`
	LoginURL        string `env:"LOGIN_UI_BASE_URL"`
	TelemetryURL    string `env:"TELEMETRY_URL"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_console"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates the external URLs.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// An empty secret would let anyone mint a valid session cookie.
	if c.SessionSecret == "" {
		return fmt.Errorf("config: SESSION_SECRET is required")
	}

	required := map[string]string{
		"IDENTITY_SERVICE_BASE_URL": c.IdentityBaseURL,
		"USER_SERVICE_BASE_URL":     c.UserBaseURL,
		"CATALOG_SERVICE_BASE_URL":  c.CatalogBaseURL,
		"LOGIN_UI_BASE_URL":         c.LoginURL,
	}
	for name, value := range required {
		if err := validateURL(name, value, true); err != nil {
			return err
		}
	}
	return validateURL("TELEMETRY_URL", c.TelemetryURL, false)
}

func validateURL(name, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("config: %s is required", name)
		}
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: %s must be an absolute URL, got %q", name, value)
	}
	return nil
}
