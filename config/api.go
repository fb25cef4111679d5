package config

import (
	"strings"
	"time"
)

// DefaultAPIBaseURL is the EduEvents API used when no override is set.
const DefaultAPIBaseURL = "https://vierry-api.ishimwe.rw/api/v1"

// APIConfig configures the upstream EduEvents API client.
type APIConfig struct {
	BaseURL string `env:"API_BASE_URL"`
	// ViteBaseURL is honoured when BaseURL is unset so existing frontend
	// deployment environments keep working.
	ViteBaseURL string `env:"VITE_API_BASE_URL"`

	// Timeout bounds each API request; 0 disables the client-side timeout.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`

	// ErrorMessagePath is a JMESPath expression selecting the user-facing
	// message from an error response body.
	ErrorMessagePath string `env:"API_ERROR_MESSAGE_PATH" envDefault:"message"`
}

// Sanitize resolves the base URL and clamps the timeout.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = strings.TrimSpace(c.ViteBaseURL)
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultAPIBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.Timeout < 0 {
		c.Timeout = 0
	}
	c.ErrorMessagePath = strings.TrimSpace(c.ErrorMessagePath)
	if c.ErrorMessagePath == "" {
		c.ErrorMessagePath = "message"
	}
}
