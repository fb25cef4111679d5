package config

import (
	"log/slog"
	"strings"
)

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"` // debug, info, warn, error
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json or text
}

// Sanitize lowercases both fields and falls back to info/json.
func (c *LogConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if _, ok := logLevels[c.Level]; !ok {
		c.Level = "info"
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != "text" {
		c.Format = "json"
	}
}

//nolint:gochecknoglobals // static read-only lookup
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured level.
func (c LogConfig) SlogLevel() slog.Level {
	return logLevels[c.Level]
}
