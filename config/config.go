package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: upstream EduEvents API client
//   - storage.go: per-browser storage backend and Redis connection
//   - sessions.go: session manager registry and route guard
//   - http.go: HTTP server configuration
//   - logging.go: log level and format
//   - observability.go: metrics
type AppConfig struct {
	// IsDev controls development mode behavior (template hot reloading, caching).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Log LogConfig

	HTTP HTTPConfig

	API APIConfig

	Storage StorageConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	Sessions SessionsConfig

	// LandingContentPath overrides the embedded landing page content file.
	LandingContentPath string `env:"LANDING_CONTENT_PATH"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Log.Sanitize()
	c.HTTP.Sanitize()
	c.API.Sanitize()
	c.Storage.Sanitize()
	c.Redis.Sanitize()
	c.Sessions.Sanitize()
	c.Observability.Sanitize()
	c.LandingContentPath = strings.TrimSpace(c.LandingContentPath)

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
