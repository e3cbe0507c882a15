package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete session configuration, loadable from environment
// variables (ORDERLY_ prefix), flags, or YAML config files.
type Config struct {
	BaseURL           string        `usage:"Orderly backend base URL, e.g. https://orderly.example.com/api" flag:"base-url"`
	CookieName        string        `default:"JSESSIONID" usage:"Session cookie name" flag:"cookie-name"`
	SessionCookie     string        `usage:"Session cookie credential (ORDERLY_SESSION_COOKIE)" flag:"session-cookie"`
	Freshness         time.Duration `default:"60s" usage:"Per-type order list freshness window"`
	PageSize          int           `default:"12" usage:"Product catalog page size" flag:"page-size"`
	ExcludedAllergens []string      `usage:"Allergen codes excluded from the product catalog" flag:"excluded-allergens"`
	HealthInterval    time.Duration `default:"30s" usage:"Backend connectivity probe interval" flag:"health-interval"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ORDERLY",
		Files:     []string{"config.yaml", "/etc/orderly/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required: set ORDERLY_BASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps generically named environment variables to the
// application's ORDERLY_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.BaseURL == "" {
		if v := os.Getenv("API_BASE_URL"); v != "" {
			c.BaseURL = v
		}
	}
}
