// Package appconfig maps process environment variables into a
// strongly-typed struct for cmd/crawl's process-level settings
// (database connection, admin surface, crawler-code matching). The
// per-run scenario inputs (sid/cid/url/keyword/target) come from CLI
// flags instead, per the crawler's thin-CLI-wrapper design.
package appconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig holds the environment-derived settings cmd/crawl needs
// before it can resolve an engine.Config from CLI flags.
type AppConfig struct {
	DatabaseURL        string  `env:"DATABASE_URL,required"`
	AdminAddr          string  `env:"ADMIN_ADDR" envDefault:":8090"`
	KeywordCrawlerCode string  `env:"DC_KEYWORD_CRAWLER"`
	GallogCrawlerCode  string  `env:"DC_GALLOG_CRAWLER"`
	ExpirationPeriod   string  `env:"EXPIRATION_PERIOD"`
	HTTPRatePerSecond  float64 `env:"HTTP_RATE_LIMIT_PER_SECOND" envDefault:"5"`
	HTTPRateBurst      int     `env:"HTTP_RATE_LIMIT_BURST" envDefault:"2"`
}

// Load parses the process environment into an AppConfig.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("appconfig: parse environment: %w", err)
	}
	return cfg, nil
}

// EnvLookup adapts the already-parsed AppConfig fields to the
// engine.EnvLookup shape NewConfig expects, so the crawler-code
// matching env vars are read once at process startup rather than
// re-read from os.Getenv during config resolution.
func (c *AppConfig) EnvLookup() func(key string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "DC_KEYWORD_CRAWLER":
			return c.KeywordCrawlerCode, c.KeywordCrawlerCode != ""
		case "DC_GALLOG_CRAWLER":
			return c.GallogCrawlerCode, c.GallogCrawlerCode != ""
		case "EXPIRATION_PERIOD":
			return c.ExpirationPeriod, c.ExpirationPeriod != ""
		default:
			return "", false
		}
	}
}
